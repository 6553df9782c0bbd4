package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data (duplicate account)
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInvalidCredentials indicates a login mismatch
	ErrorTypeInvalidCredentials ErrorType = "INVALID_CREDENTIALS"

	// ErrorTypeUnauthorized indicates a mutating call without a session
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	// Fields holds field-level detail for validation errors.
	Fields map[string]string
	Err    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, formatFields(e.Fields))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewFieldValidationError creates a validation error carrying every violated field.
func NewFieldValidationError(message string, fields map[string]string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Fields:  fields,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewDuplicateAccountError reports a registration email collision.
func NewDuplicateAccountError() *AppError {
	return NewConflictError("An account with this email already exists. Please login.")
}

// NewInvalidCredentialsError reports a login mismatch without saying which part was wrong.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCredentials,
		Message: "Invalid email or password. Please try again.",
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewNotAuthenticatedError reports a call that needs a logged-in session.
func NewNotAuthenticatedError() *AppError {
	return NewUnauthorizedError("not authenticated")
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// As returns the AppError wrapped by err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}
