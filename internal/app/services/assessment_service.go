package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// AssessmentService attaches assessments to courses and merges per-student
// submission file lists.
type AssessmentService interface {
	CreateAssessment(ctx context.Context, name string, blobIDs []string, visibility bool) (*models.Assessment, error)
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)
	AttachToCourse(ctx context.Context, courseID, assessmentID string) (*models.Course, error)
	DetachAndDelete(ctx context.Context, courseID, assessmentID string) error
	Submit(ctx context.Context, assessmentID, studentID string, blobIDs []string) (*models.Assessment, error)
	GetSubmission(ctx context.Context, assessmentID, studentID string) (models.Submission, error)
	GetAllSubmissions(ctx context.Context, assessmentID string) ([]models.Submission, error)
	// ListAllAssessments resolves every assessment referenced by the
	// course, skipping dangling IDs. The second result is the skipped count.
	ListAllAssessments(ctx context.Context, courseID string) ([]models.Assessment, int, error)
}

// assessmentServiceImpl implements AssessmentService
type assessmentServiceImpl struct {
	assessmentRepo repositories.AssessmentRepository
	courseRepo     repositories.CourseRepository
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(assessmentRepo repositories.AssessmentRepository, courseRepo repositories.CourseRepository) AssessmentService {
	return &assessmentServiceImpl{
		assessmentRepo: assessmentRepo,
		courseRepo:     courseRepo,
	}
}

// CreateAssessment creates an assessment whose material files are the
// already-persisted blob IDs.
func (s *assessmentServiceImpl) CreateAssessment(ctx context.Context, name string, blobIDs []string, visibility bool) (*models.Assessment, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("assessment name is required")
	}

	assessment := &models.Assessment{
		ID:         uuid.New().String(),
		Name:       name,
		Files:      append([]string(nil), blobIDs...),
		Visibility: visibility,
	}
	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, err
	}

	logger.Info().Str("assessmentId", assessment.ID).Str("name", name).Msg("Assessment created")
	return assessment, nil
}

// GetAssessment retrieves an assessment by ID
func (s *assessmentServiceImpl) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	return s.assessmentRepo.GetByID(ctx, id)
}

// AttachToCourse adds the assessment ID to the course's assessments set.
// The assessment must exist; attach is idempotent.
func (s *assessmentServiceImpl) AttachToCourse(ctx context.Context, courseID, assessmentID string) (*models.Course, error) {
	if _, err := s.assessmentRepo.GetByID(ctx, assessmentID); err != nil {
		return nil, err
	}

	return updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		return c.AddAssessment(assessmentID), nil
	})
}

// DetachAndDelete removes the assessment from the course and deletes the
// assessment document. Detach happens first so a crash between the two
// steps can orphan the assessment document but never leave the course
// pointing at nothing. A failed delete after a successful detach is
// reported as PartialFailure.
func (s *assessmentServiceImpl) DetachAndDelete(ctx context.Context, courseID, assessmentID string) error {
	if _, err := updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		return c.RemoveAssessment(assessmentID), nil
	}); err != nil {
		return err
	}

	err := s.assessmentRepo.Delete(ctx, assessmentID)
	if err != nil && !errors.Is(err, apperrors.ErrAssessmentNotFound) {
		return apperrors.NewPartialFailureError("detachAndDelete",
			[]string{"course.assessments"},
			[]apperrors.FailedStep{{Step: "assessment.delete", Err: err}})
	}

	logger.Info().Str("courseId", courseID).Str("assessmentId", assessmentID).Msg("Assessment detached and deleted")
	return nil
}

// Submit merges blob IDs into the student's submission entry, creating it on
// first submission. There is exactly one entry per student at all times.
func (s *assessmentServiceImpl) Submit(ctx context.Context, assessmentID, studentID string, blobIDs []string) (*models.Assessment, error) {
	if studentID == "" {
		return nil, apperrors.NewValidationError("student ID is required")
	}
	if len(blobIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one file is required")
	}

	return updateAssessment(ctx, s.assessmentRepo, assessmentID, func(a *models.Assessment) (bool, error) {
		return a.AppendSubmission(studentID, blobIDs), nil
	})
}

// GetSubmission looks up one student's submission by exact student ID match
func (s *assessmentServiceImpl) GetSubmission(ctx context.Context, assessmentID, studentID string) (models.Submission, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return models.Submission{}, err
	}

	sub, ok := assessment.SubmissionFor(studentID)
	if !ok {
		return models.Submission{}, apperrors.ErrSubmissionNotFound
	}
	return sub, nil
}

// GetAllSubmissions returns every submission entry of an assessment
func (s *assessmentServiceImpl) GetAllSubmissions(ctx context.Context, assessmentID string) ([]models.Submission, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(assessment.StudentSubmissions) == 0 {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return assessment.StudentSubmissions, nil
}

// ListAllAssessments resolves the course's assessment set best-effort:
// dangling IDs referencing a since-deleted assessment are skipped, not
// fatal.
func (s *assessmentServiceImpl) ListAllAssessments(ctx context.Context, courseID string) ([]models.Assessment, int, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}

	assessments := make([]models.Assessment, 0, len(course.Assessments))
	skipped := 0
	for _, id := range course.Assessments {
		assessment, err := s.assessmentRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrAssessmentNotFound) {
				logger.Warn().Str("courseId", courseID).Str("assessmentId", id).Msg("Skipping dangling assessment reference")
				skipped++
				continue
			}
			return nil, skipped, err
		}
		assessments = append(assessments, *assessment)
	}

	return assessments, skipped, nil
}
