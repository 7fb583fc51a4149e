package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// MembershipService keeps the redundant membership relation consistent: a
// course's students/teachers sets and the matching classesEnrolled/
// classesTeaching refs on the user documents. Every operation mutates the
// course side first, then reconciles the user side; a failure on the second
// leg surfaces as PartialFailure rather than being swallowed.
type MembershipService interface {
	Enroll(ctx context.Context, userID, courseID string) (*models.Course, error)
	Drop(ctx context.Context, userID, courseID string) (*models.Course, error)
	AssignTeaching(ctx context.Context, userID, courseID string) (*models.Course, error)
	DropTeaching(ctx context.Context, userID, courseID string) (*models.Course, error)
	DeleteUser(ctx context.Context, userID string) error
}

// membershipServiceImpl implements MembershipService
type membershipServiceImpl struct {
	courseRepo repositories.CourseRepository
	userRepo   repositories.UserRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(courseRepo repositories.CourseRepository, userRepo repositories.UserRepository) MembershipService {
	return &membershipServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

// Enroll idempotently adds the user to the course's students set and the
// course to the user's classesEnrolled set. Re-enrolling is a no-op.
func (s *membershipServiceImpl) Enroll(ctx context.Context, userID, courseID string) (*models.Course, error) {
	return s.addMembership(ctx, userID, courseID,
		func(c *models.Course) bool { return c.AddStudent(userID) },
		func(u *models.User, ref models.CourseRef) bool { return u.AddEnrolled(ref) },
		"enroll", "course.students", "user.classesEnrolled")
}

// Drop removes the user from the course's students set and the course from
// the user's classesEnrolled set. Dropping a non-enrolled user is a no-op.
func (s *membershipServiceImpl) Drop(ctx context.Context, userID, courseID string) (*models.Course, error) {
	return s.removeMembership(ctx, userID, courseID,
		func(c *models.Course) bool { return c.RemoveStudent(userID) },
		func(u *models.User) bool { return u.RemoveEnrolled(courseID) },
		"drop", "course.students", "user.classesEnrolled")
}

// AssignTeaching is the teaching-side analogue of Enroll.
func (s *membershipServiceImpl) AssignTeaching(ctx context.Context, userID, courseID string) (*models.Course, error) {
	return s.addMembership(ctx, userID, courseID,
		func(c *models.Course) bool { return c.AddTeacher(userID) },
		func(u *models.User, ref models.CourseRef) bool { return u.AddTeaching(ref) },
		"assignTeaching", "course.teachers", "user.classesTeaching")
}

// DropTeaching is the teaching-side analogue of Drop.
func (s *membershipServiceImpl) DropTeaching(ctx context.Context, userID, courseID string) (*models.Course, error) {
	return s.removeMembership(ctx, userID, courseID,
		func(c *models.Course) bool { return c.RemoveTeacher(userID) },
		func(u *models.User) bool { return u.RemoveTeaching(courseID) },
		"dropTeaching", "course.teachers", "user.classesTeaching")
}

func (s *membershipServiceImpl) addMembership(
	ctx context.Context,
	userID, courseID string,
	mutateCourse func(*models.Course) bool,
	mutateUser func(*models.User, models.CourseRef) bool,
	op, courseStep, userStep string,
) (*models.Course, error) {
	// Resolve the user before touching the course so a bad user ID never
	// leaves a half-applied membership.
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	course, err := updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		return mutateCourse(c), nil
	})
	if err != nil {
		return nil, err
	}

	ref := models.CourseRef{CourseID: course.ID, CourseName: course.Title}
	_, err = updateUser(ctx, s.userRepo, userID, func(u *models.User) (bool, error) {
		return mutateUser(u, ref), nil
	})
	if err != nil {
		return course, apperrors.NewPartialFailureError(op,
			[]string{courseStep},
			[]apperrors.FailedStep{{Step: userStep, Err: err}})
	}

	return course, nil
}

func (s *membershipServiceImpl) removeMembership(
	ctx context.Context,
	userID, courseID string,
	mutateCourse func(*models.Course) bool,
	mutateUser func(*models.User) bool,
	op, courseStep, userStep string,
) (*models.Course, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	course, err := updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
		return mutateCourse(c), nil
	})
	if err != nil {
		return nil, err
	}

	_, err = updateUser(ctx, s.userRepo, userID, func(u *models.User) (bool, error) {
		return mutateUser(u), nil
	})
	if err != nil {
		return course, apperrors.NewPartialFailureError(op,
			[]string{courseStep},
			[]apperrors.FailedStep{{Step: userStep, Err: err}})
	}

	return course, nil
}

// DeleteUser cascades: the user is removed from every course referenced by
// classesEnrolled and classesTeaching, and the user document is deleted only
// once every course is clean. A failed course step leaves the user in place
// and reports PartialFailure; re-running the cascade skips courses that are
// already clean.
func (s *membershipServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	var completed []string
	var failed []apperrors.FailedStep

	scrub := func(courseID, step string, mutate func(*models.Course) bool) {
		_, err := updateCourse(ctx, s.courseRepo, courseID, func(c *models.Course) (bool, error) {
			return mutate(c), nil
		})
		switch {
		case err == nil:
			completed = append(completed, step)
		case errors.Is(err, apperrors.ErrCourseNotFound):
			// The course is gone; there is nothing left to scrub.
			logger.Warn().Str("courseId", courseID).Str("userId", userID).Msg("Skipping membership cleanup for missing course")
			completed = append(completed, step)
		default:
			failed = append(failed, apperrors.FailedStep{Step: step, Err: err})
		}
	}

	for _, ref := range user.ClassesEnrolled {
		scrub(ref.CourseID, fmt.Sprintf("course[%s].students", ref.CourseID), func(c *models.Course) bool {
			return c.RemoveStudent(userID)
		})
	}
	for _, ref := range user.ClassesTeaching {
		scrub(ref.CourseID, fmt.Sprintf("course[%s].teachers", ref.CourseID), func(c *models.Course) bool {
			return c.RemoveTeacher(userID)
		})
	}

	if len(failed) > 0 {
		return apperrors.NewPartialFailureError("deleteUser", completed, failed)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return apperrors.NewPartialFailureError("deleteUser", completed,
			[]apperrors.FailedStep{{Step: "user.delete", Err: err}})
	}

	logger.Info().Str("userId", userID).Int("coursesScrubbed", len(completed)).Msg("User deleted with membership cascade")
	return nil
}
