package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status alongside a caller-safe message. Anything
// that is not an AppError is reported as a generic 500 without detail.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NewAuthError(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

// NewGenerationError wraps a backend failure. The caller sees a generic
// message; the cause stays server-side for the logs.
func NewGenerationError(err error) *AppError {
	return &AppError{Code: fiber.StatusInternalServerError, Message: "Chat failed", Err: err}
}

func NewLimitExceededError(message string) *AppError {
	return &AppError{Code: fiber.StatusTooManyRequests, Message: message}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
