package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/app/services"
	"github.com/happysmilecode/yumenosite/internal/middleware"
)

// UserController handles user account operations.
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateUser handles creating a new user
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.APIResponse{data=models.User} "User created"
// @Failure 409 {object} dto.APIResponse "User ID already exists"
// @Router /user [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: user})
}

// GetUser handles retrieving a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "User retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /user/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.userService.GetUser(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// AddQuestionnaire handles replacing a user's questionnaire blob
// @Summary Update a user's questionnaire
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UpdateQuestionnaireRequest true "Questionnaire data"
// @Success 200 {object} dto.APIResponse{data=models.User} "Questionnaire updated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /user/addQuestionaire [put]
func (c *UserController) AddQuestionnaire(ctx *gin.Context) {
	var req dto.UpdateQuestionnaireRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.UpdateQuestionnaire(ctx, req.UserID, req.Questionnaire)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// UpdatePassword handles replacing a user's password hash
// @Summary Update a user's password hash
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UpdatePasswordRequest true "New password hash"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password updated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /user/password [put]
func (c *UserController) UpdatePassword(ctx *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if _, err := c.userService.UpdatePasswordHash(ctx, req.UserID, req.PasswordHash); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Password updated"}})
}

// AddSocialInitiativeProfile handles setting a user's social-initiative profile
// @Summary Set a user's social-initiative profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.SocialInitiativeRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=models.User} "Profile set"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /user/addSocialInitiativeProfile [put]
func (c *UserController) AddSocialInitiativeProfile(ctx *gin.Context) {
	var req dto.SocialInitiativeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.SetSocialInitiative(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// DeleteUser handles deleting a user with its membership cascade
// @Summary Delete a user
// @Description Removes the user from every course it appears in, then deletes the user document
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 502 {object} dto.APIResponse "Cascade completed partially"
// @Router /user/deleteUser/{userId} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	if err := c.userService.DeleteUser(ctx, ctx.Param("userId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "User deleted"}})
}
