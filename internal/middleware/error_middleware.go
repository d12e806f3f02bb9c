package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/logger"
)

// apiError is the HTTP rendering of a domain error
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classifyError maps domain errors to status, code and a default message. More
// specific sentinels must come before the generic ones they wrap.
func classifyError(err error) apiError {
	switch {
	// Profile claims
	case errors.Is(err, apperrors.ErrProfileAlreadyClaimed):
		return apiError{http.StatusBadRequest, dto.ErrorCodeAlreadyClaimed, "Profile has already been claimed"}
	case errors.Is(err, apperrors.ErrNameMismatch):
		return apiError{http.StatusForbidden, dto.ErrorCodeNameMismatch, "Your name does not match this profile"}
	case errors.Is(err, apperrors.ErrSelfClaim):
		return apiError{http.StatusBadRequest, dto.ErrorCodeBadRequest, "A profile cannot claim itself"}
	case errors.Is(err, apperrors.ErrInvitationCycle):
		return apiError{http.StatusInternalServerError, dto.ErrorCodeDataIntegrity, "Invitation data is inconsistent"}

	// Invitations
	case errors.Is(err, apperrors.ErrInvitationExpired):
		return apiError{http.StatusGone, dto.ErrorCodeInvitationExpired, "Invitation has expired"}
	case errors.Is(err, apperrors.ErrInvitationUsed):
		return apiError{http.StatusConflict, dto.ErrorCodeInvitationUsed, "Invitation has already been used"}
	case errors.Is(err, apperrors.ErrInvitationRevoked):
		return apiError{http.StatusGone, dto.ErrorCodeInvitationRevoked, "Invitation has been revoked"}
	case errors.Is(err, apperrors.ErrInvitationAlreadyExists):
		return apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "A pending invitation already exists for this email"}

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return apiError{http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"}
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}

	// Conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"}
	case apperrors.Is(err, apperrors.ErrCourseAlreadyExists,
		apperrors.ErrOfferingAlreadyExists, apperrors.ErrAssignmentAlreadyExists, apperrors.ErrResourceAlreadyExists):
		return apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"}
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrCourseHasOfferings, apperrors.ErrProfessorHasOfferings, apperrors.ErrOfferingHasAssignments):
		return apiError{http.StatusConflict, dto.ErrorCodeConflict, "Resource is in use"}

	// Lookups and input
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case errors.Is(err, apperrors.ErrInvalidPassword):
		return apiError{http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Password does not meet requirements"}
	case errors.Is(err, apperrors.ErrInvalidEmail):
		return apiError{http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email"}
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrInvalidSemester):
		return apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case errors.Is(err, apperrors.ErrBadRequest):
		return apiError{http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"}
	}
	return apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
}

// HandleAPIError writes the error response matching err. Client errors carry the error
// text as details; server errors are logged and never leak their cause.
func HandleAPIError(c *gin.Context, err error) {
	e := classifyError(err)
	detail := dto.NewErrorDetail(e.code, e.message)

	if e.status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		detail = detail.WithSeverity(dto.ErrorSeverityCritical)
	} else {
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			detail.Message = custom.Message
			if custom.Details != nil {
				detail = detail.WithDetails(custom.Details)
			}
		} else {
			detail = detail.WithDetails(err.Error())
		}
	}

	c.JSON(e.status, dto.APIResponse{
		Success:   false,
		Error:     detail,
		Timestamp: time.Now(),
	})
}
