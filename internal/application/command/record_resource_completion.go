package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/enrollment"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD RESOURCE PROGRESS COMMAND
// Upserts a user's tracker row for one resource. Only the fields present in
// the patch are written; everything else keeps its stored value. Repeating an
// identical command leaves stored state unchanged.
// ══════════════════════════════════════════════════════════════════════════════

// RecordResourceProgressCommand carries a partial progress update for a
// (user, resource) pair.
type RecordResourceProgressCommand struct {
	// UserID is the acting user.
	UserID string `validate:"required"`

	// ResourceID identifies the resource being tracked.
	ResourceID string `validate:"required"`

	// Role is the caller's role; mentors and admins bypass the
	// enrollment check.
	Role enrollment.Role

	// Patch holds the fields to change. At least one must be set.
	Patch progress.Patch
}

// Validate checks the command before any storage access.
func (c RecordResourceProgressCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return shared.NewDomainError("progress", "RecordResourceProgress", shared.ErrInvalidInput, err.Error())
	}
	return c.Patch.Validate()
}

// RecordResourceProgressResult describes the stored row after the upsert
// together with the live resource rollup of its parent section.
type RecordResourceProgressResult struct {
	Progress *progress.ResourceProgress
	Section  shared.Completion
}

// RecordResourceProgressHandler handles the command.
type RecordResourceProgressHandler struct {
	store      progress.Store
	hier       hierarchy.Reader
	gate       *enrollment.Gate
	aggregator *rollup.Aggregator
}

// NewRecordResourceProgressHandler creates the handler.
func NewRecordResourceProgressHandler(
	store progress.Store,
	hier hierarchy.Reader,
	gate *enrollment.Gate,
	aggregator *rollup.Aggregator,
) *RecordResourceProgressHandler {
	return &RecordResourceProgressHandler{
		store:      store,
		hier:       hier,
		gate:       gate,
		aggregator: aggregator,
	}
}

// Handle validates, authorizes against the resource's league, and upserts.
func (h *RecordResourceProgressHandler) Handle(ctx context.Context, cmd RecordResourceProgressCommand) (*RecordResourceProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	res, err := h.hier.GetResource(ctx, cmd.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("record_resource_progress: %w", err)
	}

	leagueID, err := h.hier.LeagueIDForResource(ctx, cmd.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("record_resource_progress: %w", err)
	}

	if err := h.gate.AuthorizeAs(ctx, cmd.UserID, leagueID, cmd.Role); err != nil {
		return nil, err
	}

	row, err := h.store.UpsertResource(ctx, cmd.UserID, cmd.ResourceID, cmd.Patch)
	if err != nil {
		return nil, fmt.Errorf("record_resource_progress: upsert: %w", err)
	}

	section, err := h.aggregator.ResourceCompletionCount(ctx, cmd.UserID, res.SectionID)
	if err != nil {
		return nil, fmt.Errorf("record_resource_progress: rollup: %w", err)
	}

	return &RecordResourceProgressResult{Progress: row, Section: section}, nil
}
