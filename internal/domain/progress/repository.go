package progress

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS STORE
// The durable store for per-user completion rows. Implementations live in
// infrastructure/persistence. All upserts are atomic per (user, key) row and
// merge per-field, never whole-row overwrite.
// ══════════════════════════════════════════════════════════════════════════════

// SectionCompletion identifies one section completion for reconciliation sweeps.
type SectionCompletion struct {
	UserID      string
	SectionID   string
	CompletedAt time.Time
}

// Store persists progress rows.
type Store interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Writes
	// ─────────────────────────────────────────────────────────────────────────

	// UpsertResource creates the row if absent, otherwise merges only the
	// supplied patch fields. Returns the row as stored.
	UpsertResource(ctx context.Context, userID, resourceID string, p Patch) (*ResourceProgress, error)

	// UpsertSection is the section-granularity equivalent of UpsertResource.
	UpsertSection(ctx context.Context, userID, sectionID string, p Patch) (*SectionProgress, error)

	// ResetResource clears completion fields back to "not completed", leaving
	// the row present. Returns shared.ErrNotFound when no row exists.
	ResetResource(ctx context.Context, userID, resourceID string) (*ResourceProgress, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Reads
	// ─────────────────────────────────────────────────────────────────────────

	// GetResource returns a row, or shared.ErrNotFound when the user has not
	// touched the resource yet.
	GetResource(ctx context.Context, userID, resourceID string) (*ResourceProgress, error)

	// GetSection returns a section row, or shared.ErrNotFound.
	GetSection(ctx context.Context, userID, sectionID string) (*SectionProgress, error)

	// CompletedSectionIDs returns the subset of sectionIDs whose row for the
	// user has isCompleted = true. Used by the aggregator to join live
	// progress state against the live hierarchy.
	CompletedSectionIDs(ctx context.Context, userID string, sectionIDs []string) ([]string, error)

	// CompletedResourceIDs is the resource-granularity equivalent.
	CompletedResourceIDs(ctx context.Context, userID string, resourceIDs []string) ([]string, error)

	// RecentSectionCompletions returns section completions recorded since the
	// given time, for the award reconciliation sweep.
	RecentSectionCompletions(ctx context.Context, since time.Time) ([]SectionCompletion, error)
}
