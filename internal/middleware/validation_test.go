package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happysmilecode/yumenosite/internal/app/models/dto"
)

func recordBindingError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleBindingError(c, err)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleBindingErrorReportsFirstInvalidField(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	w, resp := recordBindingError(t, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "Title", resp.Error.Field)
	assert.Equal(t, "Title is required", resp.Error.Message)
}

func TestHandleBindingErrorUnwrapsValidationErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"email"`
	}
	err := validator.New().Struct(payload{Email: "not-an-address"})
	require.Error(t, err)

	_, resp := recordBindingError(t, fmt.Errorf("binding failed: %w", err))

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "Email", resp.Error.Field)
}

func TestHandleBindingErrorFallsBackOnMalformedBody(t *testing.T) {
	w, resp := recordBindingError(t, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "unexpected EOF", resp.Error.Details)
}
