package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application-level error
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	CodeBadRequest            = "BAD_REQUEST"
	CodeNotFound              = "NOT_FOUND"
	CodeChecklistNotFound     = "CHECKLIST_NOT_FOUND"
	CodeItemNotFound          = "ITEM_NOT_FOUND"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodeOrderingInconsistency = "ORDERING_INCONSISTENCY"
	CodeInvalidSyncID         = "INVALID_SYNC_ID"
	CodeSyncUnavailable       = "SYNC_UNAVAILABLE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Common errors
var (
	ErrBadRequest = &AppError{
		Code:       CodeBadRequest,
		Message:    "Bad request",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       CodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrChecklistNotFound = &AppError{
		Code:       CodeChecklistNotFound,
		Message:    "Checklist not found",
		StatusCode: http.StatusNotFound,
	}

	ErrItemNotFound = &AppError{
		Code:       CodeItemNotFound,
		Message:    "Item not found",
		StatusCode: http.StatusNotFound,
	}

	ErrStorageUnavailable = &AppError{
		Code:       CodeStorageUnavailable,
		Message:    "Storage unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}

	ErrInvalidSyncID = &AppError{
		Code:       CodeInvalidSyncID,
		Message:    "Sync identifier must be 3-50 characters of letters, digits, '_' or '-'",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalError = &AppError{
		Code:       CodeInternalError,
		Message:    "Internal error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return &AppError{
		Code:       CodeValidationError,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// StorageError wraps a persistence failure
func StorageError(err error, message string) *AppError {
	return &AppError{
		Code:       CodeStorageUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// OrderingInconsistencyError reports a duplicate or missing position within a
// scope. Callers resolve it by running a repair pass, not by failing the user.
func OrderingInconsistencyError(message string) *AppError {
	return &AppError{
		Code:       CodeOrderingInconsistency,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err carries a not-found code. Timer callbacks
// treat these as benign: the record was removed after the timer was armed.
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case CodeNotFound, CodeChecklistNotFound, CodeItemNotFound:
		return true
	}
	return false
}
