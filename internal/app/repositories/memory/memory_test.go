package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

func TestCourseRepositoryVersioning(t *testing.T) {
	repo := NewCourseRepository()
	ctx := context.Background()

	course := &models.Course{ID: "crs-1", Title: "Intro to Systems"}
	require.NoError(t, repo.Create(ctx, course))
	assert.Equal(t, int64(1), course.Version)

	// Two readers obtain the same version.
	first, err := repo.GetByID(ctx, "crs-1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "crs-1")
	require.NoError(t, err)

	first.AddStudent("stu-1")
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	// The stale writer loses with Conflict instead of clobbering.
	second.AddStudent("stu-2")
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := repo.GetByID(ctx, "crs-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1"}, stored.Students)
}

func TestCourseRepositorySaveMissing(t *testing.T) {
	repo := NewCourseRepository()
	ctx := context.Background()

	err := repo.Save(ctx, &models.Course{ID: "ghost", Version: 1})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseRepositoryCreateDuplicate(t *testing.T) {
	repo := NewCourseRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Course{ID: "crs-1"}))
	err := repo.Create(ctx, &models.Course{ID: "crs-1"})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestCourseRepositorySearch(t *testing.T) {
	repo := NewCourseRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Course{
		ID:    "crs-1",
		Title: "Intro to Systems",
		Tags:  "networking",
		Level: "beginner",
	}))
	require.NoError(t, repo.Create(ctx, &models.Course{
		ID:       "crs-2",
		Title:    "Poetry Workshop",
		Teachers: []string{"maria"},
	}))

	cases := []struct {
		query string
		want  []string
	}{
		{"system", []string{"crs-1"}},
		{"SYSTEM", []string{"crs-1"}},
		{"network", []string{"crs-1"}},
		{"maria", []string{"crs-2"}},
		{"beginner", []string{"crs-1"}},
		{"algebra", nil},
	}
	for _, tc := range cases {
		got, err := repo.Search(ctx, tc.query)
		require.NoError(t, err, tc.query)
		var ids []string
		for _, c := range got {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, tc.want, ids, tc.query)
	}
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &models.User{ID: "alice", Email: "alice@example.com", Type: models.UserTypeLearner}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	require.NoError(t, repo.Delete(ctx, "alice"))
	_, err = repo.GetByID(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = repo.Delete(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAssessmentRepositoryRoundTrip(t *testing.T) {
	repo := NewAssessmentRepository()
	ctx := context.Background()

	assessment := &models.Assessment{ID: "asm-1", Name: "Midterm", Visibility: true}
	require.NoError(t, repo.Create(ctx, assessment))

	got, err := repo.GetByID(ctx, "asm-1")
	require.NoError(t, err)
	assert.Equal(t, "Midterm", got.Name)

	got.AppendSubmission("stu-1", []string{"blob-a"})
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.GetByID(ctx, "asm-1")
	require.NoError(t, err)
	sub, ok := again.SubmissionFor("stu-1")
	require.True(t, ok)
	assert.Equal(t, []string{"blob-a"}, sub.Files)
}
