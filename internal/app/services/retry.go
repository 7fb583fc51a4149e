package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

// maxSaveAttempts bounds the optimistic retry loop. Every mutation applied
// through these helpers is an idempotent merge, so re-applying it against a
// fresh copy of the document is always safe.
const maxSaveAttempts = 5

// updateCourse runs a read-modify-write cycle on a course, retrying on
// version conflicts. mutate reports whether it changed the document; an
// unchanged document is returned without saving.
func updateCourse(ctx context.Context, repo repositories.CourseRepository, id string, mutate func(*models.Course) (bool, error)) (*models.Course, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		course, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		changed, err := mutate(course)
		if err != nil {
			return nil, err
		}
		if !changed {
			return course, nil
		}

		err = repo.Save(ctx, course)
		if err == nil {
			return course, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("course %s: gave up after %d attempts: %w", id, maxSaveAttempts, apperrors.ErrConflict)
}

// updateAssessment runs a conflict-retried read-modify-write cycle on an
// assessment.
func updateAssessment(ctx context.Context, repo repositories.AssessmentRepository, id string, mutate func(*models.Assessment) (bool, error)) (*models.Assessment, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		assessment, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		changed, err := mutate(assessment)
		if err != nil {
			return nil, err
		}
		if !changed {
			return assessment, nil
		}

		err = repo.Save(ctx, assessment)
		if err == nil {
			return assessment, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("assessment %s: gave up after %d attempts: %w", id, maxSaveAttempts, apperrors.ErrConflict)
}

// updateUser runs a conflict-retried read-modify-write cycle on a user.
func updateUser(ctx context.Context, repo repositories.UserRepository, id string, mutate func(*models.User) (bool, error)) (*models.User, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		changed, err := mutate(user)
		if err != nil {
			return nil, err
		}
		if !changed {
			return user, nil
		}

		err = repo.Save(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("user %s: gave up after %d attempts: %w", id, maxSaveAttempts, apperrors.ErrConflict)
}
