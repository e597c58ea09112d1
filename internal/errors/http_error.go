package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeSlotUnavailable = "SLOT_UNAVAILABLE"
	CodePersistence     = "PERSISTENCE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
)

// AppError is an error with an associated HTTP status code and a message
// that is safe to show to the caller.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new AppError with the given code, status and message.
func NewHTTPError(code string, status int, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

func Validation(message string, fields map[string]string) *AppError {
	e := NewHTTPError(CodeValidation, http.StatusBadRequest, message)
	e.Fields = fields
	return e
}

func NotFound(resource string) *AppError {
	return NewHTTPError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

func SlotUnavailable(message string) *AppError {
	return NewHTTPError(CodeSlotUnavailable, http.StatusConflict, message)
}

// Persistence wraps a storage failure. The cause is kept for logging but
// never shown to the caller.
func Persistence(err error) *AppError {
	e := NewHTTPError(CodePersistence, http.StatusServiceUnavailable, "storage is unavailable, please try again")
	e.Err = err
	return e
}

func Internal(err error) *AppError {
	e := NewHTTPError(CodeInternal, http.StatusInternalServerError, "internal server error")
	e.Err = err
	return e
}

func RateLimited() *AppError {
	return NewHTTPError(CodeRateLimited, http.StatusTooManyRequests, "too many requests, please slow down")
}

// AsAppError converts any error into an AppError, treating unknown errors
// as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// CodeOf returns the AppError code carried by err, or "" when err is not
// an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
