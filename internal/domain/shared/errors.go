package shared

import "errors"

// ErrorKind classifies a domain error for transport mapping and caller retry decisions.
type ErrorKind string

const (
	// ErrorKindValidation marks input rejected before any mutation (missing field,
	// non-positive quantity, empty line set).
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindPrecondition marks a command rejected because the aggregate is not
	// in a state that permits it. The aggregate is left unchanged.
	ErrorKindPrecondition ErrorKind = "PRECONDITION"
	// ErrorKindNotFound marks an unknown entity reference.
	ErrorKindNotFound ErrorKind = "NOT_FOUND"
	// ErrorKindConflict marks a concurrent modification conflict.
	ErrorKindConflict ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Code: code, Message: message}
}

// NewPreconditionError creates a precondition error
func NewPreconditionError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindPrecondition, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = &DomainError{Kind: ErrorKindConflict, Code: "ALREADY_EXISTS", Message: "Resource already exists"}
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewPreconditionError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = &DomainError{Kind: ErrorKindConflict, Code: "CONCURRENCY_CONFLICT", Message: "Resource was modified by another process"}
)

// KindOf returns the ErrorKind of err, or an empty kind for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}

// IsValidation reports whether err is a validation domain error
func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}

// IsPrecondition reports whether err is a precondition domain error
func IsPrecondition(err error) bool {
	return KindOf(err) == ErrorKindPrecondition
}
