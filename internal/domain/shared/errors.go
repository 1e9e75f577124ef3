package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors created with NewDomainError match the package sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidState        = "INVALID_STATE"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConstraintViolation = NewDomainError(CodeConstraintViolation, "Storage constraint violated")
)

// NewInvalidInputError creates an INVALID_INPUT error for a single field
func NewInvalidInputError(field, message string) *DomainError {
	return NewDomainError(CodeInvalidInput, fmt.Sprintf("%s: %s", field, message))
}

// ConstraintKind classifies the storage constraint that rejected a write
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintNotNull    ConstraintKind = "not_null"
)

// ConstraintViolationError is returned when the store rejects a write because it
// breaks a primary key, foreign key, check or not-null constraint. The driver
// error is kept as-is and reachable through Unwrap.
type ConstraintViolationError struct {
	Kind ConstraintKind
	Err  error
}

// Error returns the driver message verbatim, prefixed with the constraint kind
func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying driver error
func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConstraintViolation) true for every kind
func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation reports whether err is a constraint violation of the given kind.
// An empty kind matches any constraint violation.
func IsConstraintViolation(err error, kind ConstraintKind) bool {
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) {
		return false
	}
	return kind == "" || cv.Kind == kind
}
