package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/enrollment"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET RESOURCE PROGRESS COMMAND
// Clears a resource tracker back to incomplete: is_completed false,
// completed_at, time_spent, and the revision flag cleared, the note kept.
// Resetting never removes a badge or specialization already earned.
// ══════════════════════════════════════════════════════════════════════════════

// ResetResourceProgressCommand identifies the tracker row to reset.
type ResetResourceProgressCommand struct {
	// UserID is the acting user.
	UserID string `validate:"required"`

	// ResourceID identifies the resource whose tracker is reset.
	ResourceID string `validate:"required"`

	// Role is the caller's role; mentors and admins bypass the
	// enrollment check.
	Role enrollment.Role
}

// Validate checks the command before any storage access.
func (c ResetResourceProgressCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return shared.NewDomainError("progress", "ResetResourceProgress", shared.ErrInvalidInput, err.Error())
	}
	return nil
}

// ResetResourceProgressHandler handles the command.
type ResetResourceProgressHandler struct {
	store progress.Store
	hier  hierarchy.Reader
	gate  *enrollment.Gate
}

// NewResetResourceProgressHandler creates the handler.
func NewResetResourceProgressHandler(
	store progress.Store,
	hier hierarchy.Reader,
	gate *enrollment.Gate,
) *ResetResourceProgressHandler {
	return &ResetResourceProgressHandler{store: store, hier: hier, gate: gate}
}

// Handle validates, authorizes, and resets. Resetting a resource that has no
// tracker row returns shared.ErrProgressNotFound.
func (h *ResetResourceProgressHandler) Handle(ctx context.Context, cmd ResetResourceProgressCommand) (*progress.ResourceProgress, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	leagueID, err := h.hier.LeagueIDForResource(ctx, cmd.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("reset_resource_progress: %w", err)
	}

	if err := h.gate.AuthorizeAs(ctx, cmd.UserID, leagueID, cmd.Role); err != nil {
		return nil, err
	}

	row, err := h.store.ResetResource(ctx, cmd.UserID, cmd.ResourceID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("reset_resource_progress: %w", err)
	}

	return row, nil
}
