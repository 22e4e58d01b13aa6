// Package progress holds per-user completion state at Resource and Section
// granularity. Rows are created lazily on first write; an absent row means
// "not started", not an error. Section completion and resource completion are
// two independent trackers: marking a section complete is a deliberate user
// action, not derived from its resources, and vice versa.
package progress

import (
	"time"

	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ResourceProgress is a user's state against a single resource.
// (userID, resourceID) is unique. completedAt is set iff isCompleted.
type ResourceProgress struct {
	UserID            string
	ResourceID        string
	IsCompleted       bool
	CompletedAt       *time.Time
	TimeSpent         *int // seconds
	PersonalNote      *string
	MarkedForRevision bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SectionProgress is a user's state against a single section.
// Same shape as ResourceProgress, tracked independently.
type SectionProgress struct {
	UserID            string
	SectionID         string
	IsCompleted       bool
	CompletedAt       *time.Time
	TimeSpent         *int // seconds
	PersonalNote      *string
	MarkedForRevision bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Patch is a partial update. Nil fields are left untouched on merge, so
// concurrent updates to sibling fields of the same row are never lost.
type Patch struct {
	IsCompleted       *bool
	TimeSpent         *int
	PersonalNote      *string
	MarkedForRevision *bool
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.IsCompleted == nil && p.TimeSpent == nil &&
		p.PersonalNote == nil && p.MarkedForRevision == nil
}

// Validate checks field bounds. A failed patch must cause no partial write.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return shared.ErrEmptyPatch
	}
	if p.TimeSpent != nil {
		if err := shared.TimeSpentSeconds(*p.TimeSpent).Validate(); err != nil {
			return err
		}
	}
	if p.PersonalNote != nil {
		if err := shared.PersonalNote(*p.PersonalNote).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// completionFields is the shared mutable part of both progress row types.
type completionFields struct {
	IsCompleted       *bool
	CompletedAt       **time.Time
	TimeSpent         **int
	PersonalNote      **string
	MarkedForRevision *bool
}

// apply merges a validated patch into a row at the given time.
//
// Completion transitions:
//   - false → true stamps CompletedAt = now
//   - true → true keeps the original CompletedAt, so replaying the same
//     completion is byte-for-byte idempotent
//   - → false clears CompletedAt and TimeSpent
func (f completionFields) apply(p Patch, now time.Time) {
	if p.IsCompleted != nil {
		if *p.IsCompleted {
			if !*f.IsCompleted {
				stamped := now
				*f.CompletedAt = &stamped
			}
			*f.IsCompleted = true
		} else {
			*f.IsCompleted = false
			*f.CompletedAt = nil
			*f.TimeSpent = nil
		}
	}
	if p.TimeSpent != nil {
		v := *p.TimeSpent
		*f.TimeSpent = &v
	}
	if p.PersonalNote != nil {
		v := *p.PersonalNote
		*f.PersonalNote = &v
	}
	if p.MarkedForRevision != nil {
		*f.MarkedForRevision = *p.MarkedForRevision
	}
}

// Apply merges a validated patch into the row.
func (r *ResourceProgress) Apply(p Patch, now time.Time) {
	completionFields{
		IsCompleted:       &r.IsCompleted,
		CompletedAt:       &r.CompletedAt,
		TimeSpent:         &r.TimeSpent,
		PersonalNote:      &r.PersonalNote,
		MarkedForRevision: &r.MarkedForRevision,
	}.apply(p, now)
	r.UpdatedAt = now
}

// Reset clears the completion fields, leaving the row (and its note) present.
func (r *ResourceProgress) Reset(now time.Time) {
	r.IsCompleted = false
	r.CompletedAt = nil
	r.TimeSpent = nil
	r.MarkedForRevision = false
	r.UpdatedAt = now
}

// Apply merges a validated patch into the row.
func (s *SectionProgress) Apply(p Patch, now time.Time) {
	completionFields{
		IsCompleted:       &s.IsCompleted,
		CompletedAt:       &s.CompletedAt,
		TimeSpent:         &s.TimeSpent,
		PersonalNote:      &s.PersonalNote,
		MarkedForRevision: &s.MarkedForRevision,
	}.apply(p, now)
	s.UpdatedAt = now
}

// NewResourceProgress creates a fresh row with a patch applied.
func NewResourceProgress(userID, resourceID string, p Patch, now time.Time) *ResourceProgress {
	r := &ResourceProgress{
		UserID:     userID,
		ResourceID: resourceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Apply(p, now)
	return r
}

// NewSectionProgress creates a fresh row with a patch applied.
func NewSectionProgress(userID, sectionID string, p Patch, now time.Time) *SectionProgress {
	s := &SectionProgress{
		UserID:    userID,
		SectionID: sectionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Apply(p, now)
	return s
}
