// internal/notes/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Domain specific errors
var (
	// Storage errors
	ErrStorage     = errors.New("storage failure")
	ErrLogNotFound = errors.New("transcript log not found")

	// External service errors
	ErrExternalService = errors.New("external service failure")
	ErrEmptyResponse   = errors.New("external service returned an empty response")

	// Request errors
	ErrMissingAudio      = errors.New("no audio file provided")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Error codes carried by ServiceError
const (
	CodeStorage         = "storage_error"
	CodeExternalService = "external_service_error"
)

// Error types for better error handling

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// ServiceError represents an error in the notes service
type ServiceError struct {
	Code    string
	Message string
	Cause   error
}

func (e ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause so callers can use errors.Is
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel that corresponds to the error code
func (e ServiceError) Is(target error) bool {
	switch e.Code {
	case CodeStorage:
		return target == ErrStorage
	case CodeExternalService:
		return target == ErrExternalService
	}
	return false
}

// NewServiceError creates a new service error
func NewServiceError(code, message string, cause error) ServiceError {
	return ServiceError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewStorageError wraps an I/O failure
func NewStorageError(message string, cause error) ServiceError {
	return NewServiceError(CodeStorage, message, cause)
}

// NewExternalServiceError wraps a failure of the speech or chat service
func NewExternalServiceError(message string, cause error) ServiceError {
	return NewServiceError(CodeExternalService, message, cause)
}
