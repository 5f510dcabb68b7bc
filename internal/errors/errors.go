package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewConflictError reports a request that clashes with existing state,
// such as a duplicate username.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}
