package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// CourseService defines the interface for course CRUD, search and file
// reference management.
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	SearchCourses(ctx context.Context, query string) ([]models.Course, error)
	UpdateCourse(ctx context.Context, req *dto.UpdateCourseRequest) (*models.Course, error)
	// AttachFiles appends already-persisted blob IDs to the course's file
	// sequence. Blobs are always stored first and linked second.
	AttachFiles(ctx context.Context, courseID string, blobIDs []string) (*models.Course, error)
	// SetImage replaces the course image reference and returns the
	// previous image's blob ID (empty if none) so the caller can delete
	// the now-unreferenced blob.
	SetImage(ctx context.Context, courseID, blobID string) (*models.Course, string, error)
	// DetachBlob removes every reference to the blob from all courses and
	// returns the number of courses that referenced it. Reference removal
	// always precedes blob deletion.
	DetachBlob(ctx context.Context, blobID string) (int, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo repositories.CourseRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.CourseRepository) CourseService {
	return &courseServiceImpl{courseRepo: courseRepo}
}

// CreateCourse creates a course document, deduplicating any seed membership
// lists.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Level:       req.Level,
	}
	for _, id := range req.Students {
		course.AddStudent(id)
	}
	for _, id := range req.Teachers {
		course.AddTeacher(id)
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Str("courseId", course.ID).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// GetAllCourses retrieves every course
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// SearchCourses returns courses matching the query as a case-insensitive
// substring of title, teachers, level or tags.
func (s *courseServiceImpl) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	return s.courseRepo.Search(ctx, query)
}

// UpdateCourse updates a course's descriptive fields. Absent fields are
// left untouched.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, req *dto.UpdateCourseRequest) (*models.Course, error) {
	return updateCourse(ctx, s.courseRepo, req.ID, func(c *models.Course) (bool, error) {
		changed := false
		if req.Title != nil && *req.Title != c.Title {
			c.Title = *req.Title
			changed = true
		}
		if req.Description != nil && *req.Description != c.Description {
			c.Description = *req.Description
			changed = true
		}
		if req.Tags != nil && *req.Tags != c.Tags {
			c.Tags = *req.Tags
			changed = true
		}
		if req.Level != nil && *req.Level != c.Level {
			c.Level = *req.Level
			changed = true
		}
		return changed, nil
	})
}

// AttachFiles appends blob IDs to the course's ordered file sequence
func (s *courseServiceImpl) AttachFiles(ctx context.Context, courseID string, blobIDs []string) (*models.Course, error) {
	return updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		return c.AppendFiles(blobIDs), nil
	})
}

// SetImage replaces the course's image reference
func (s *courseServiceImpl) SetImage(ctx context.Context, courseID, blobID string) (*models.Course, string, error) {
	var previous string
	course, err := updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		previous = c.Image
		if c.Image == blobID {
			return false, nil
		}
		c.Image = blobID
		return true, nil
	})
	if err != nil {
		return nil, "", err
	}
	if previous == blobID {
		previous = ""
	}
	return course, previous, nil
}

// DetachBlob scrubs a blob ID from every course's files sequence and image
// reference.
func (s *courseServiceImpl) DetachBlob(ctx context.Context, blobID string) (int, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	detached := 0
	for i := range courses {
		c := &courses[i]
		if !containsBlobRef(c, blobID) {
			continue
		}
		if _, err := updateCourse(ctx, s.courseRepo, c.ID, func(c *models.Course) (bool, error) {
			return c.RemoveFile(blobID), nil
		}); err != nil {
			return detached, err
		}
		detached++
	}

	if detached > 0 {
		logger.Info().Str("blobId", blobID).Int("courses", detached).Msg("Blob references removed")
	}
	return detached, nil
}

func containsBlobRef(c *models.Course, blobID string) bool {
	if c.Image == blobID {
		return true
	}
	for _, id := range c.Files {
		if id == blobID {
			return true
		}
	}
	return false
}
