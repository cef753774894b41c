package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the document workflow core
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeForbidden           = "FORBIDDEN"
	CodeVersionConflict     = "VERSION_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodePartialBatchFailure = "PARTIAL_BATCH_FAILURE"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput    = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrVersionConflict = NewDomainError(CodeVersionConflict, "Document was modified by another process")
	ErrForbidden       = NewDomainError(CodeForbidden, "Not allowed to perform this action")
)

// NewValidationError creates a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeValidationError, fmt.Sprintf(format, args...))
}

// NewInvalidTransitionError creates an INVALID_TRANSITION error naming the
// current status and the attempted action
func NewInvalidTransitionError(status, action string) *DomainError {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("Action %q is not defined for status %q", action, status))
}

// NewVersionConflictError creates a VERSION_CONFLICT error naming the
// expected and stored versions
func NewVersionConflictError(expected, stored int) *DomainError {
	return NewDomainError(CodeVersionConflict, fmt.Sprintf("Version conflict: expected %d, stored document is at %d", expected, stored))
}

// NewForbiddenError creates a FORBIDDEN error with a formatted message
func NewForbiddenError(format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeForbidden, fmt.Sprintf(format, args...))
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
