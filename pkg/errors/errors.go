package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a malformed or incomplete input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeDuplicateEmail indicates an account already uses the email
	ErrorTypeDuplicateEmail ErrorType = "DUPLICATE_EMAIL"

	// ErrorTypeForbidden indicates the caller may not perform the operation
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeNoManagerAssigned indicates an employee without a manager
	ErrorTypeNoManagerAssigned ErrorType = "NO_MANAGER_ASSIGNED"

	// ErrorTypeUnauthenticated indicates a missing, invalid or expired credential
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewDuplicateEmailError reports that email is already registered
func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateEmail,
		Message: fmt.Sprintf("email %s is already registered", email),
	}
}

// NewForbiddenError creates a new authorization error
func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

// NewNoManagerAssignedError reports that employeeID has no manager
func NewNoManagerAssignedError(employeeID string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoManagerAssigned,
		Message: fmt.Sprintf("employee %s has no manager assigned", employeeID),
	}
}

// NewUnauthenticatedError creates a new authentication error
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthenticated, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// TypeOf returns the type of the first AppError in err's chain.
// Errors that are not AppErrors are internal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == t
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
