package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"already claimed", apperrors.ErrProfileAlreadyClaimed, http.StatusBadRequest, dto.ErrorCodeAlreadyClaimed},
		{"name mismatch", apperrors.ErrNameMismatch, http.StatusForbidden, dto.ErrorCodeNameMismatch},
		{"cycle", apperrors.ErrInvitationCycle, http.StatusInternalServerError, dto.ErrorCodeDataIntegrity},
		{"storage", fmt.Errorf("error claiming profile: %w", errors.New("conn reset")), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"offering in use", apperrors.ErrOfferingHasAssignments, http.StatusConflict, dto.ErrorCodeConflict},
		{"invitation expired", apperrors.ErrInvitationExpired, http.StatusGone, dto.ErrorCodeInvitationExpired},
		{"invitation used", apperrors.ErrInvitationUsed, http.StatusConflict, dto.ErrorCodeInvitationUsed},
		{"forbidden custom", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"bad request custom", apperrors.NewBadRequestError("bad"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"semester", apperrors.ErrInvalidSemester, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.Equal(t, tt.status, got.status)
			assert.Equal(t, tt.code, got.code)
		})
	}
}

func TestHandleAPIError_Body(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("custom message is surfaced", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		HandleAPIError(c, apperrors.NewForbiddenError("only admins"))

		require.Equal(t, http.StatusForbidden, w.Code)
		var body dto.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "only admins", body.Error.Message)
	})

	t.Run("server errors hide the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		HandleAPIError(c, errors.New("password=hunter2 connection refused"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "hunter2")
	})
}
