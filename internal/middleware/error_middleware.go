package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
	"github.com/happysmilecode/yumenosite/internal/pkg/apperrors"
	"github.com/happysmilecode/yumenosite/internal/pkg/blobstore"
	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. The error
// taxonomy is small: not-found, validation, conflict, partial failure and
// store errors; anything else is an internal error.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrAssessmentNotFound,
		apperrors.ErrSubmissionNotFound,
		apperrors.ErrBlobNotFound) || errors.Is(err, blobstore.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrPartialFailure):
		detail := dto.NewErrorDetail(dto.ErrorCodePartialFailure, err.Error())
		var pf *apperrors.PartialFailureError
		if errors.As(err, &pf) {
			failed := make([]string, 0, len(pf.Failed))
			for _, step := range pf.Failed {
				failed = append(failed, step.Step)
			}
			detail = detail.WithDetails(dto.PartialFailureDetails{
				Completed: pf.Completed,
				Failed:    failed,
			})
		}
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Cascade completed partially")
		c.JSON(http.StatusBadGateway, dto.APIResponse{Error: detail})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()),
		})
	case errors.Is(err, apperrors.ErrStore):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Store error")
		c.JSON(http.StatusServiceUnavailable, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeStoreError, "Storage backend unavailable"),
		})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
