package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

// ReviewService appends reviews to a course and computes the running
// average score. Reviews are immutable once stored.
type ReviewService interface {
	AddReview(ctx context.Context, req *dto.AddReviewRequest) (*models.Course, error)
	// AverageScore returns the arithmetic mean of the course's review
	// scores and the review count. A course with no reviews averages 0.
	AverageScore(ctx context.Context, courseID string) (float64, int, error)
}

// reviewServiceImpl implements ReviewService
type reviewServiceImpl struct {
	courseRepo repositories.CourseRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(courseRepo repositories.CourseRepository) ReviewService {
	return &reviewServiceImpl{courseRepo: courseRepo}
}

// AddReview validates the score and appends an immutable review
func (s *reviewServiceImpl) AddReview(ctx context.Context, req *dto.AddReviewRequest) (*models.Course, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, apperrors.NewValidationError("review score must be between 1 and 5")
	}

	review := models.Review{
		ID:       uuid.New().String(),
		AuthorID: req.AuthorID,
		Text:     req.Text,
		Score:    req.Score,
		Anon:     req.Anon,
	}

	// The review ID is minted once, outside the retry loop, so a
	// conflicted retry can never append it twice.
	return updateCourse(ctx, s.courseRepo, req.CourseID, func(c *models.Course) (bool, error) {
		return c.AddReview(review), nil
	})
}

// AverageScore computes the running average of a course's reviews
func (s *reviewServiceImpl) AverageScore(ctx context.Context, courseID string) (float64, int, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return 0, 0, err
	}
	return course.AverageScore(), len(course.Reviews), nil
}
