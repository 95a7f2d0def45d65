package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication
	ErrCodeInvalidCreds ErrorCode = "INVALID_CREDENTIALS"

	// User Management
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken   ErrorCode = "EMAIL_TAKEN"

	// Study Posts & Registrations
	ErrCodePostNotFound        ErrorCode = "POST_NOT_FOUND"
	ErrCodeAlreadyRegistered   ErrorCode = "ALREADY_REGISTERED"
	ErrCodeRegistrationMissing ErrorCode = "REGISTRATION_NOT_FOUND"

	// Chat & Messaging
	ErrCodeMessageEmpty ErrorCode = "MESSAGE_EMPTY"

	// Rate Limiting
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"

	// Validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Generic
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// WithDetails adds contextual details to the error
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithInternal wraps an internal error
func (e *AppError) WithInternal(err error) *AppError {
	e.Internal = err
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Pre-defined error constructors for common cases

func NewInvalidCredentials() *AppError {
	return New(ErrCodeInvalidCreds, "Invalid username or password", fiber.StatusUnauthorized)
}

func NewUserNotFound() *AppError {
	return New(ErrCodeUserNotFound, "User not found", fiber.StatusNotFound)
}

func NewEmailTaken(email string) *AppError {
	return New(ErrCodeEmailTaken, "This email is already in use", fiber.StatusBadRequest).
		WithDetails("email", email)
}

func NewPostNotFound() *AppError {
	return New(ErrCodePostNotFound, "Post not found", fiber.StatusNotFound)
}

func NewAlreadyRegistered() *AppError {
	return New(ErrCodeAlreadyRegistered, "You are already registered for this course", fiber.StatusBadRequest)
}

func NewRegistrationNotFound() *AppError {
	return New(ErrCodeRegistrationMissing, "Registration not found", fiber.StatusNotFound)
}

func NewMessageEmpty() *AppError {
	return New(ErrCodeMessageEmpty, "Message text is required", fiber.StatusBadRequest)
}

func NewValidationError(message string) *AppError {
	return New(ErrCodeValidationFailed, message, fiber.StatusBadRequest)
}

func NewBadRequest(message string) *AppError {
	if message == "" {
		message = "Bad request"
	}
	return New(ErrCodeInvalidInput, message, fiber.StatusBadRequest)
}

func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An internal error occurred"
	}
	return New(ErrCodeInternal, message, fiber.StatusInternalServerError)
}

func NewRateLimitError() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please try again later.", http.StatusTooManyRequests)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// FromError converts a standard error to AppError if possible
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Convert known library errors
	if errors.Is(err, fiber.ErrNotFound) {
		return New(ErrCodeNotFound, "Resource not found", fiber.StatusNotFound)
	}
	if errors.Is(err, fiber.ErrBadRequest) {
		return NewValidationError("Invalid request")
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return New(ErrCodeInternal, fiberErr.Message, fiberErr.Code)
	}

	// Default to internal error
	return NewInternalError("").WithInternal(err)
}
