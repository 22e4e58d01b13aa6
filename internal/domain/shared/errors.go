// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrValueTooLong  = errors.New("value exceeds maximum length")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Conflict is soft: on award paths an existing row is normalized to success
	// before it ever reaches a caller.
	ErrConflict = errors.New("conflict")

	// Storage errors
	ErrTransientStorage = errors.New("transient storage error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progress", "achievement", "enrollment"
	Op      string // Operation that failed, e.g., "Upsert", "Award"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Hierarchy domain errors
var (
	ErrLeagueNotFound   = NewDomainError("hierarchy", "Find", ErrNotFound, "league not found")
	ErrWeekNotFound     = NewDomainError("hierarchy", "Find", ErrNotFound, "week not found")
	ErrSectionNotFound  = NewDomainError("hierarchy", "Find", ErrNotFound, "section not found")
	ErrResourceNotFound = NewDomainError("hierarchy", "Find", ErrNotFound, "resource not found")
)

// Progress domain errors
var (
	ErrProgressNotFound = NewDomainError("progress", "Find", ErrNotFound, "progress row not found")
	ErrNoteTooLong      = NewDomainError("progress", "Validate", ErrValueTooLong, "personal note exceeds 1000 characters")
	ErrNegativeTime     = NewDomainError("progress", "Validate", ErrNegativeValue, "time spent cannot be negative")
	ErrEmptyPatch       = NewDomainError("progress", "Validate", ErrInvalidInput, "patch contains no fields")
)

// Enrollment domain errors
var (
	ErrNotEnrolled = NewDomainError("enrollment", "Authorize", ErrForbidden, "user is not enrolled in this league")
)

// Achievement domain errors
var (
	ErrBadgeNotFound          = NewDomainError("achievement", "Find", ErrNotFound, "badge not found")
	ErrSpecializationNotFound = NewDomainError("achievement", "Find", ErrNotFound, "specialization not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueTooLong)
}

// IsRetryable checks if the operation can be retried safely.
// Every write path here is idempotent, so transient storage errors qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientStorage)
}
