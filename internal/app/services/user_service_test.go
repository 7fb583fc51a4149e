package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
)

func TestCreateAndGetUser(t *testing.T) {
	repos := newTestRepos(t)
	membership := NewMembershipService(repos.Courses, repos.Users)
	svc := NewUserService(repos.Users, membership)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
		ID:           "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdef",
		Type:         "learner",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeLearner, created.Type)

	got, err := svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	// IDs are unique.
	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{
		ID:           "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Type:         "learner",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestUpdateQuestionnaire(t *testing.T) {
	repos := newTestRepos(t)
	membership := NewMembershipService(repos.Courses, repos.Users)
	svc := NewUserService(repos.Users, membership)
	ctx := context.Background()

	seedUser(t, repos, "alice")

	blob := json.RawMessage(`{"interests":["go","databases"]}`)
	got, err := svc.UpdateQuestionnaire(ctx, "alice", blob)
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(got.Questionnaire))
}

func TestSetSocialInitiative(t *testing.T) {
	repos := newTestRepos(t)
	membership := NewMembershipService(repos.Courses, repos.Users)
	svc := NewUserService(repos.Users, membership)
	ctx := context.Background()

	seedUser(t, repos, "alice")

	got, err := svc.SetSocialInitiative(ctx, &dto.SocialInitiativeRequest{
		UserID:   "alice",
		Location: "Lisbon",
		Email:    "org@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, got.SocialInitiative)
	assert.Equal(t, "Lisbon", got.SocialInitiative.Location)
}

func TestUpdatePasswordHash(t *testing.T) {
	repos := newTestRepos(t)
	membership := NewMembershipService(repos.Courses, repos.Users)
	svc := NewUserService(repos.Users, membership)
	ctx := context.Background()

	seedUser(t, repos, "alice")

	got, err := svc.UpdatePasswordHash(ctx, "alice", "new-hash")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	_, err = svc.UpdatePasswordHash(ctx, "ghost", "new-hash")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserServiceDeleteCascades(t *testing.T) {
	repos := newTestRepos(t)
	membership := NewMembershipService(repos.Courses, repos.Users)
	svc := NewUserService(repos.Users, membership)
	ctx := context.Background()

	seedUser(t, repos, "alice")
	course := seedCourse(t, repos, "Drawing")
	_, err := membership.Enroll(ctx, "alice", course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "alice"))

	got, err := repos.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Students)
}
