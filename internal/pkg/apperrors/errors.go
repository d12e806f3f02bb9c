package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrResourceNotFound)
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Profile claim errors
var (
	ErrProfileAlreadyClaimed = errors.New("profile has already been claimed")
	ErrNameMismatch          = errors.New("name does not match the unclaimed profile")
	ErrSelfClaim             = errors.New("a profile cannot claim itself")
)

// Invitation errors
var (
	ErrInvitationNotFound      = fmt.Errorf("invitation %w", ErrResourceNotFound)
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationUsed          = errors.New("invitation has already been used")
	ErrInvitationRevoked       = errors.New("invitation has been revoked")
	ErrInvitationAlreadyExists = errors.New("a pending invitation already exists for this email")
	ErrInvitationCycle         = errors.New("invitation graph contains a cycle")
)

// Course errors
var (
	ErrCourseNotFound          = fmt.Errorf("course %w", ErrResourceNotFound)
	ErrCourseAlreadyExists     = errors.New("course with this code already exists")
	ErrCourseHasOfferings      = errors.New("course has offerings and cannot be deleted")
	ErrProfessorNotFound       = fmt.Errorf("professor %w", ErrResourceNotFound)
	ErrProfessorHasOfferings   = errors.New("professor teaches offerings and cannot be deleted")
	ErrOfferingNotFound        = fmt.Errorf("course offering %w", ErrResourceNotFound)
	ErrOfferingAlreadyExists   = errors.New("course is already offered in this semester")
	ErrOfferingHasAssignments  = errors.New("course offering has TA assignments and cannot be deleted")
	ErrAssignmentNotFound      = fmt.Errorf("assignment %w", ErrResourceNotFound)
	ErrAssignmentAlreadyExists = errors.New("user is already assigned to this course offering")
	ErrInvalidSemester         = errors.New("invalid semester")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
