package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/app/repositories/memory"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

func newTestRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	return memory.NewRepositories()
}

func seedUser(t *testing.T, repos *repositories.Repositories, id string) *models.User {
	t.Helper()
	user := &models.User{
		ID:    id,
		Email: id + "@example.com",
		Type:  models.UserTypeLearner,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedCourse(t *testing.T, repos *repositories.Repositories, title string) *models.Course {
	t.Helper()
	svc := NewCourseService(repos.Courses)
	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Title: title})
	require.NoError(t, err)
	return course
}

func TestEnrollIsIdempotent(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Operating Systems")

	first, err := svc.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, first.Students)

	second, err := svc.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, second.Students)

	user, err := repos.Users.GetByID(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, user.ClassesEnrolled, 1)
	assert.Equal(t, course.ID, user.ClassesEnrolled[0].CourseID)
	assert.Equal(t, "Operating Systems", user.ClassesEnrolled[0].CourseName)
}

func TestEnrollUnknownUser(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	course := seedCourse(t, repos, "Compilers")

	_, err := svc.Enroll(context.Background(), "ghost", course.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// The course side stays untouched when the user does not resolve.
	got, err := repos.Courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Students)
}

func TestEnrollUnknownCourse(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	seedUser(t, repos, "alice")

	_, err := svc.Enroll(context.Background(), "alice", "no-such-course")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestMembershipSymmetry(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	seedUser(t, repos, "bob")
	course := seedCourse(t, repos, "Databases")

	_, err := svc.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)
	_, err = svc.AssignTeaching(ctx, "bob", course.ID)
	require.NoError(t, err)

	got, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, got.Students)
	assert.Equal(t, []string{"bob"}, got.Teachers)

	alice, _ := repos.Users.GetByID(ctx, "alice")
	bob, _ := repos.Users.GetByID(ctx, "bob")
	require.Len(t, alice.ClassesEnrolled, 1)
	require.Len(t, bob.ClassesTeaching, 1)

	// Drop restores both sides.
	_, err = svc.Drop(ctx, "alice", course.ID)
	require.NoError(t, err)
	_, err = svc.DropTeaching(ctx, "bob", course.ID)
	require.NoError(t, err)

	got, _ = repos.Courses.GetByID(ctx, course.ID)
	assert.Empty(t, got.Students)
	assert.Empty(t, got.Teachers)

	alice, _ = repos.Users.GetByID(ctx, "alice")
	bob, _ = repos.Users.GetByID(ctx, "bob")
	assert.Empty(t, alice.ClassesEnrolled)
	assert.Empty(t, bob.ClassesTeaching)
}

func TestDropNonEnrolledIsNoop(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Networks")

	got, err := svc.Drop(context.Background(), "alice", course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Students)
}

func TestConcurrentEnrollKeepsBothStudents(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	seedUser(t, repos, "bob")
	course := seedCourse(t, repos, "Algorithms")

	done := make(chan error, 2)
	for _, id := range []string{"alice", "bob"} {
		go func(id string) {
			_, err := svc.Enroll(ctx, id, course.ID)
			done <- err
		}(id)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}

	got, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, got.Students)
}

func TestDeleteUserCascade(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	enrolled := seedCourse(t, repos, "Calculus")
	teaching := seedCourse(t, repos, "Linear Algebra")

	_, err := svc.Enroll(ctx, "alice", enrolled.ID)
	require.NoError(t, err)
	_, err = svc.AssignTeaching(ctx, "alice", teaching.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "alice"))

	_, err = repos.Users.GetByID(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	got, _ := repos.Courses.GetByID(ctx, enrolled.ID)
	assert.Empty(t, got.Students)
	got, _ = repos.Courses.GetByID(ctx, teaching.ID)
	assert.Empty(t, got.Teachers)
}

func TestDeleteUserSkipsMissingCourse(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMembershipService(repos.Courses, repos.Users)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Physics")
	_, err := svc.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)

	// The referenced course disappears before the cascade runs.
	require.NoError(t, repos.Courses.Delete(ctx, course.ID))

	require.NoError(t, svc.DeleteUser(ctx, "alice"))
	_, err = repos.Users.GetByID(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

// failingCourseRepo fails every Save to force the course leg of the cascade
// to error out.
type failingCourseRepo struct {
	repositories.CourseRepository
}

func (r *failingCourseRepo) Save(ctx context.Context, course *models.Course) error {
	return apperrors.NewStoreError(errors.New("connection reset"), "save failed")
}

func TestDeleteUserPartialFailureKeepsUser(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Chemistry")

	good := NewMembershipService(repos.Courses, repos.Users)
	_, err := good.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)

	broken := NewMembershipService(&failingCourseRepo{repos.Courses}, repos.Users)
	err = broken.DeleteUser(ctx, "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialFailure)

	var pf *apperrors.PartialFailureError
	require.ErrorAs(t, err, &pf)
	assert.Empty(t, pf.Completed)
	require.Len(t, pf.Failed, 1)

	// The user document survives a failed cascade.
	_, err = repos.Users.GetByID(ctx, "alice")
	assert.NoError(t, err)
}

// failingUserRepo fails every Save so the user leg of enroll errors after
// the course side already committed.
type failingUserRepo struct {
	repositories.UserRepository
}

func (r *failingUserRepo) Save(ctx context.Context, user *models.User) error {
	return apperrors.NewStoreError(errors.New("connection reset"), "save failed")
}

func TestEnrollPartialFailureReportsCompletedLeg(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Biology")

	broken := NewMembershipService(repos.Courses, &failingUserRepo{repos.Users})
	got, err := broken.Enroll(ctx, "alice", course.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialFailure)

	var pf *apperrors.PartialFailureError
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, []string{"course.students"}, pf.Completed)
	require.Len(t, pf.Failed, 1)
	assert.Equal(t, "user.classesEnrolled", pf.Failed[0].Step)

	// The completed course leg is still reported to the caller.
	require.NotNil(t, got)
	assert.Equal(t, []string{"alice"}, got.Students)
}
