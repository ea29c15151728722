package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCancelled indicates the visitor abandoned an interactive flow.
	// This is a defined non-error outcome for sign-in, not a failure.
	ErrCodeCancelled ErrorCode = "cancelled"
	// ErrCodeUnverified indicates the gateway credential's email is not verified.
	ErrCodeUnverified ErrorCode = "unverified"
	// ErrCodeRateLimited indicates the gateway rejected a call for quota reasons.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeDomainIneligible indicates the principal's email domain is not admitted.
	ErrCodeDomainIneligible ErrorCode = "domain_ineligible"
	// ErrCodeNotProvisioned indicates an authenticated principal with no directory record.
	ErrCodeNotProvisioned ErrorCode = "not_provisioned"
)

// AppError is a structured application error with a code, message, and
// optional cause. It supports errors.Is and errors.As through Unwrap.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field is the specific field that caused the error (validation only).
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates an Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Cancelled creates a visitor-cancelled error.
func Cancelled(message string) *AppError {
	return &AppError{Code: ErrCodeCancelled, Message: message}
}

// Unverified creates an Unverified error.
func Unverified(message string) *AppError {
	return &AppError{Code: ErrCodeUnverified, Message: message}
}

// RateLimited creates a RateLimited error.
func RateLimited(message string) *AppError {
	return &AppError{Code: ErrCodeRateLimited, Message: message}
}

// DomainIneligible creates a DomainIneligible error.
func DomainIneligible(message string) *AppError {
	return &AppError{Code: ErrCodeDomainIneligible, Message: message}
}

// NotProvisioned creates a NotProvisioned error.
func NotProvisioned(message string) *AppError {
	return &AppError{Code: ErrCodeNotProvisioned, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsCancelled checks if an error is a visitor-cancelled outcome.
func IsCancelled(err error) bool { return isCode(err, ErrCodeCancelled) }

// IsUnverified checks if an error is an Unverified error.
func IsUnverified(err error) bool { return isCode(err, ErrCodeUnverified) }

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool { return isCode(err, ErrCodeRateLimited) }

// IsDomainIneligible checks if an error is a DomainIneligible error.
func IsDomainIneligible(err error) bool { return isCode(err, ErrCodeDomainIneligible) }
