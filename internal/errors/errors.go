package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidTopic        = "INVALID_TOPIC"
	ErrCodeInvalidAnswerFormat = "INVALID_ANSWER_FORMAT"
	ErrCodeConflictRetry       = "CONFLICT_RETRY"
	ErrCodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// AppError carries an error code, a human-readable message, the HTTP status
// the front end should answer with, and an optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewInvalidTopicError flags a topic value outside the catalog
func NewInvalidTopicError(detail string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTopic,
		Message: fmt.Sprintf("invalid topic: %s", detail),
		Status:  400,
	}
}

// NewInvalidAnswerFormatError flags a submitted value that is not a number
func NewInvalidAnswerFormatError(raw string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAnswerFormat,
		Message: fmt.Sprintf("submitted answer is not a valid number: %q", raw),
		Status:  400,
	}
}

// NewConflictRetryError reports a lost optimistic-lock race; the caller should
// re-read and re-apply.
func NewConflictRetryError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeConflictRetry,
		Message: fmt.Sprintf("%s %v was modified concurrently, retry", resource, id),
		Status:  409,
	}
}

// NewStorageUnavailableError wraps a persistence failure
func NewStorageUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorageUnavailable,
		Message: "storage unavailable",
		Status:  503,
		Err:     err,
	}
}

// NewValidationError creates a VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates an INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
