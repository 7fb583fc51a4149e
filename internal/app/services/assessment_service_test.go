package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

func TestCreateAssessmentRequiresName(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)

	_, err := svc.CreateAssessment(context.Background(), "", nil, true)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAttachToCourse(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	course := seedCourse(t, repos, "Statistics")
	assessment, err := svc.CreateAssessment(ctx, "Homework 1", []string{"blob-1"}, true)
	require.NoError(t, err)

	got, err := svc.AttachToCourse(ctx, course.ID, assessment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{assessment.ID}, got.Assessments)

	// Attaching again is a no-op.
	got, err = svc.AttachToCourse(ctx, course.ID, assessment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{assessment.ID}, got.Assessments)
}

func TestAttachUnknownAssessment(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	course := seedCourse(t, repos, "Statistics")

	_, err := svc.AttachToCourse(context.Background(), course.ID, "no-such-assessment")
	assert.ErrorIs(t, err, apperrors.ErrAssessmentNotFound)

	got, err := repos.Courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Assessments)
}

func TestSubmitMergesFiles(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	assessment, err := svc.CreateAssessment(ctx, "Final Project", nil, true)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, assessment.ID, "alice", []string{"blob-a"})
	require.NoError(t, err)
	got, err := svc.Submit(ctx, assessment.ID, "alice", []string{"blob-b"})
	require.NoError(t, err)

	require.Len(t, got.StudentSubmissions, 1)
	sub, ok := got.SubmissionFor("alice")
	require.True(t, ok)
	assert.Equal(t, []string{"blob-a", "blob-b"}, sub.Files)

	// Resubmitting an already-present blob changes nothing.
	got, err = svc.Submit(ctx, assessment.ID, "alice", []string{"blob-a"})
	require.NoError(t, err)
	sub, _ = got.SubmissionFor("alice")
	assert.Equal(t, []string{"blob-a", "blob-b"}, sub.Files)
}

func TestSubmitTwoStudentsTwoEntries(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	assessment, err := svc.CreateAssessment(ctx, "Quiz", nil, true)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, assessment.ID, "alice", []string{"blob-a"})
	require.NoError(t, err)
	got, err := svc.Submit(ctx, assessment.ID, "bob", []string{"blob-b"})
	require.NoError(t, err)

	assert.Len(t, got.StudentSubmissions, 2)
}

func TestSubmitValidation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	assessment, err := svc.CreateAssessment(ctx, "Quiz", nil, true)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, assessment.ID, "", []string{"blob-a"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.Submit(ctx, assessment.ID, "alice", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetSubmissionExactMatch(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	assessment, err := svc.CreateAssessment(ctx, "Lab", nil, true)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, assessment.ID, "stu-1", []string{"blob-a"})
	require.NoError(t, err)

	sub, err := svc.GetSubmission(ctx, assessment.ID, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", sub.StudentID)

	// stu-10 must not match stu-1's entry.
	_, err = svc.GetSubmission(ctx, assessment.ID, "stu-10")
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}

func TestGetAllSubmissionsEmpty(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	assessment, err := svc.CreateAssessment(ctx, "Lab", nil, true)
	require.NoError(t, err)

	_, err = svc.GetAllSubmissions(ctx, assessment.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}

func TestDetachAndDelete(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	course := seedCourse(t, repos, "History")
	assessment, err := svc.CreateAssessment(ctx, "Essay", nil, true)
	require.NoError(t, err)
	_, err = svc.AttachToCourse(ctx, course.ID, assessment.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DetachAndDelete(ctx, course.ID, assessment.ID))

	got, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Assessments)

	_, err = svc.GetAssessment(ctx, assessment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAssessmentNotFound)
}

func TestListAllAssessmentsSkipsDangling(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewAssessmentService(repos.Assessments, repos.Courses)
	ctx := context.Background()

	course := seedCourse(t, repos, "Art")
	a1, err := svc.CreateAssessment(ctx, "Sketch", nil, true)
	require.NoError(t, err)
	a2, err := svc.CreateAssessment(ctx, "Painting", nil, true)
	require.NoError(t, err)

	_, err = svc.AttachToCourse(ctx, course.ID, a1.ID)
	require.NoError(t, err)
	_, err = svc.AttachToCourse(ctx, course.ID, a2.ID)
	require.NoError(t, err)

	// Delete one assessment behind the course's back, leaving a dangling
	// reference in the assessments set.
	require.NoError(t, repos.Assessments.Delete(ctx, a1.ID))

	got, skipped, err := svc.ListAllAssessments(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, a2.ID, got[0].ID)
}
