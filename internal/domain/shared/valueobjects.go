// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"strings"
	"unicode/utf8"
)

// ═══════════════════════════════════════════════════════════════════════════
// Completion Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Completion is a completed/total rollup at some hierarchy level.
type Completion struct {
	Completed int
	Total     int
}

// Percent returns round(100 * completed / total), and 0 when total is 0.
// The zero-total case covers leagues and weeks with no content yet.
func (c Completion) Percent() int {
	if c.Total <= 0 {
		return 0
	}
	return (200*c.Completed + c.Total) / (2 * c.Total)
}

// Full reports whether every child is completed. A container with no
// children is never "full": awards require total > 0.
func (c Completion) Full() bool {
	return c.Total > 0 && c.Completed == c.Total
}

// Add accumulates another rollup into this one.
func (c Completion) Add(other Completion) Completion {
	return Completion{
		Completed: c.Completed + other.Completed,
		Total:     c.Total + other.Total,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// PersonalNote Value Object
// ═══════════════════════════════════════════════════════════════════════════

// MaxNoteLength is the maximum length of a personal note in characters.
const MaxNoteLength = 1000

// PersonalNote is a learner's free-text note attached to a progress row.
// Only the length bound is enforced here; content sanitization is upstream.
type PersonalNote string

// Validate checks the note length bound.
func (n PersonalNote) Validate() error {
	if utf8.RuneCountInString(string(n)) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// String returns the string representation.
func (n PersonalNote) String() string {
	return string(n)
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeSpent Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeSpentSeconds is time spent on a resource or section, in whole seconds.
type TimeSpentSeconds int

// Validate rejects negative durations.
func (t TimeSpentSeconds) Validate() error {
	if t < 0 {
		return ErrNegativeTime
	}
	return nil
}

// Int returns the underlying int value.
func (t TimeSpentSeconds) Int() int {
	return int(t)
}

// ═══════════════════════════════════════════════════════════════════════════
// ID helpers
// ═══════════════════════════════════════════════════════════════════════════

// ValidID reports whether an opaque identifier is usable. IDs are
// globally unique and opaque to this core; only emptiness is rejected.
func ValidID(id string) bool {
	return strings.TrimSpace(id) != ""
}
