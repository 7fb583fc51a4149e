package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/happysmilecode/yumenosite/internal/app/models"
	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/repositories"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// UserService manages user documents. Credential verification lives outside
// this service; the password hash is carried as an opaque string.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateQuestionnaire(ctx context.Context, userID string, questionnaire json.RawMessage) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) (*models.User, error)
	SetSocialInitiative(ctx context.Context, req *dto.SocialInitiativeRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo   repositories.UserRepository
	membership MembershipService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, membership MembershipService) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		membership: membership,
	}
}

// CreateUser creates a user document with empty membership sets
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		ID:               req.ID,
		Email:            req.Email,
		PasswordHash:     req.PasswordHash,
		Type:             models.UserType(strings.ToUpper(req.Type)),
		Questionnaire:    req.Questionnaire,
		SocialInitiative: &models.SocialInitiative{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("userId", user.ID).Str("type", string(user.Type)).Msg("User created")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateQuestionnaire replaces the user's opaque questionnaire blob
func (s *userServiceImpl) UpdateQuestionnaire(ctx context.Context, userID string, questionnaire json.RawMessage) (*models.User, error) {
	return updateUser(ctx, s.userRepo, userID, func(u *models.User) (bool, error) {
		u.Questionnaire = questionnaire
		return true, nil
	})
}

// UpdatePasswordHash replaces the stored password hash
func (s *userServiceImpl) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) (*models.User, error) {
	return updateUser(ctx, s.userRepo, userID, func(u *models.User) (bool, error) {
		if u.PasswordHash == passwordHash {
			return false, nil
		}
		u.PasswordHash = passwordHash
		return true, nil
	})
}

// SetSocialInitiative sets the user's social-initiative profile
func (s *userServiceImpl) SetSocialInitiative(ctx context.Context, req *dto.SocialInitiativeRequest) (*models.User, error) {
	return updateUser(ctx, s.userRepo, req.UserID, func(u *models.User) (bool, error) {
		u.SocialInitiative = &models.SocialInitiative{
			RegisteredNumber: req.RegisteredNumber,
			BusinessNumber:   req.BusinessNumber,
			Location:         req.Location,
			Hours:            req.Hours,
			Phone:            req.Phone,
			Email:            req.Email,
		}
		return true, nil
	})
}

// DeleteUser cascades through the membership service
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	return s.membership.DeleteUser(ctx, userID)
}
