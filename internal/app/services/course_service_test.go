package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

func TestCreateCourseDeduplicatesSeedLists(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Title:    "Intro to Systems",
		Students: []string{"alice", "alice", "bob"},
		Teachers: []string{"maria", "maria"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, course.Students)
	assert.Equal(t, []string{"maria"}, course.Teachers)
}

func TestUpdateCourseMergesPresentFields(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		Title:       "Systems",
		Description: "old",
		Level:       "beginner",
	})
	require.NoError(t, err)

	newDesc := "updated description"
	got, err := svc.UpdateCourse(ctx, &dto.UpdateCourseRequest{
		ID:          course.ID,
		Description: &newDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, "Systems", got.Title)
	assert.Equal(t, "updated description", got.Description)
	assert.Equal(t, "beginner", got.Level)
}

func TestAttachFilesPreservesOrder(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)
	ctx := context.Background()

	course := seedCourse(t, repos, "Writing")
	got, err := svc.AttachFiles(ctx, course.ID, []string{"blob-1", "blob-2"})
	require.NoError(t, err)
	got, err = svc.AttachFiles(ctx, got.ID, []string{"blob-3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"blob-1", "blob-2", "blob-3"}, got.Files)
}

func TestSetImageReturnsPreviousBlob(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)
	ctx := context.Background()

	course := seedCourse(t, repos, "Photography")

	got, previous, err := svc.SetImage(ctx, course.ID, "blob-img-1")
	require.NoError(t, err)
	assert.Empty(t, previous)
	assert.Equal(t, "blob-img-1", got.Image)

	got, previous, err = svc.SetImage(ctx, course.ID, "blob-img-2")
	require.NoError(t, err)
	assert.Equal(t, "blob-img-1", previous)
	assert.Equal(t, "blob-img-2", got.Image)

	// Setting the same image again reports no previous blob to delete.
	_, previous, err = svc.SetImage(ctx, course.ID, "blob-img-2")
	require.NoError(t, err)
	assert.Empty(t, previous)
}

func TestDetachBlobScrubsAllCourses(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)
	ctx := context.Background()

	first := seedCourse(t, repos, "First")
	second := seedCourse(t, repos, "Second")
	third := seedCourse(t, repos, "Third")

	_, err := svc.AttachFiles(ctx, first.ID, []string{"blob-x", "blob-y"})
	require.NoError(t, err)
	_, _, err = svc.SetImage(ctx, second.ID, "blob-x")
	require.NoError(t, err)

	detached, err := svc.DetachBlob(ctx, "blob-x")
	require.NoError(t, err)
	assert.Equal(t, 2, detached)

	got, _ := repos.Courses.GetByID(ctx, first.ID)
	assert.Equal(t, []string{"blob-y"}, got.Files)
	got, _ = repos.Courses.GetByID(ctx, second.ID)
	assert.Empty(t, got.Image)
	got, _ = repos.Courses.GetByID(ctx, third.ID)
	assert.Empty(t, got.Files)
}

func TestSearchCourses(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		Title:    "Operating Systems",
		Level:    "advanced",
		Tags:     "kernel,unix",
		Teachers: []string{"maria"},
	})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, &dto.CreateCourseRequest{
		Title: "Pottery",
		Level: "beginner",
	})
	require.NoError(t, err)

	cases := []struct {
		query string
		want  int
	}{
		{"SYSTEM", 1},
		{"maria", 1},
		{"kernel", 1},
		{"beginner", 1},
		{"e", 2},
		{"algebra", 0},
	}
	for _, tc := range cases {
		got, err := svc.SearchCourses(ctx, tc.query)
		require.NoError(t, err)
		assert.Len(t, got, tc.want, "query %q", tc.query)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewCourseService(repos.Courses)

	_, err := svc.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
