package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeStore            = "STORE_ERROR"
	CodeAuth             = "AUTH_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidInput,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewStoreError wraps a failure reported by the task store.
// The verb ends up in the message, e.g. "error fetching tasks".
func NewStoreError(verb string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStore,
		Code:    CodeStore,
		Message: fmt.Sprintf("error %s tasks", verb),
		Cause:   cause,
	}
}

// NewAuthError wraps a failure while obtaining or using credentials.
func NewAuthError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Code:    CodeAuth,
		Message: message,
		Cause:   cause,
	}
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks whether any AppError in the chain has the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetErrorCode returns the code of the first AppError in the chain.
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus returns the response status for err, 500 for unstructured errors.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
