package dto

import "encoding/json"

// CreateUserRequest creates a user. The ID doubles as the username and the
// password hash travels opaquely; credential handling lives outside this
// service.
type CreateUserRequest struct {
	ID            string          `json:"id" binding:"required"`
	Email         string          `json:"email" binding:"required,email"`
	PasswordHash  string          `json:"passwordHash" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	Questionnaire json.RawMessage `json:"questionnaire"`
}

// UpdateQuestionnaireRequest replaces a user's questionnaire blob.
type UpdateQuestionnaireRequest struct {
	UserID        string          `json:"userId" binding:"required"`
	Questionnaire json.RawMessage `json:"questionnaire" binding:"required"`
}

// UpdatePasswordRequest replaces a user's stored password hash.
type UpdatePasswordRequest struct {
	UserID       string `json:"userId" binding:"required"`
	PasswordHash string `json:"passwordHash" binding:"required"`
}

// SocialInitiativeRequest sets a user's social-initiative profile.
type SocialInitiativeRequest struct {
	UserID           string `json:"userId" binding:"required"`
	RegisteredNumber string `json:"registeredNumber"`
	BusinessNumber   string `json:"businessNumber"`
	Location         string `json:"location"`
	Hours            string `json:"hours"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}
