package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/enrollment"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SECTION PROGRESS COMMAND
// Upserts a user's tracker row for one section. A completion that is part of
// the patch kicks off the achievement flow after the row is stored. The write
// succeeds regardless of whether the achievement flow does: awards can always
// be recovered by reconciliation, lost progress cannot.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementTrigger is invoked after a section completion is persisted.
// The award flow in application/saga implements it.
type AchievementTrigger interface {
	OnSectionCompleted(ctx context.Context, userID, sectionID string) error
}

// RecordSectionProgressCommand carries a partial progress update for a
// (user, section) pair.
type RecordSectionProgressCommand struct {
	// UserID is the acting user.
	UserID string `validate:"required"`

	// SectionID identifies the section being tracked.
	SectionID string `validate:"required"`

	// Role is the caller's role; mentors and admins bypass the
	// enrollment check.
	Role enrollment.Role

	// Patch holds the fields to change. At least one must be set.
	Patch progress.Patch
}

// Validate checks the command before any storage access.
func (c RecordSectionProgressCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return shared.NewDomainError("progress", "RecordSectionProgress", shared.ErrInvalidInput, err.Error())
	}
	return c.Patch.Validate()
}

// RecordSectionProgressResult describes the stored row after the upsert
// together with the live section rollup of the owning league.
type RecordSectionProgressResult struct {
	Progress *progress.SectionProgress
	League   shared.Completion
}

// RecordSectionProgressHandler handles the command.
type RecordSectionProgressHandler struct {
	store      progress.Store
	hier       hierarchy.Reader
	gate       *enrollment.Gate
	aggregator *rollup.Aggregator
	trigger    AchievementTrigger
	log        *logger.Logger
}

// NewRecordSectionProgressHandler creates the handler. trigger may be nil,
// in which case completions never start the achievement flow.
func NewRecordSectionProgressHandler(
	store progress.Store,
	hier hierarchy.Reader,
	gate *enrollment.Gate,
	aggregator *rollup.Aggregator,
	trigger AchievementTrigger,
	log *logger.Logger,
) *RecordSectionProgressHandler {
	return &RecordSectionProgressHandler{
		store:      store,
		hier:       hier,
		gate:       gate,
		aggregator: aggregator,
		trigger:    trigger,
		log:        log,
	}
}

// Handle validates, authorizes against the section's league, upserts, and on
// a completion runs the achievement flow. Achievement failures are logged
// and never surfaced to the caller.
func (h *RecordSectionProgressHandler) Handle(ctx context.Context, cmd RecordSectionProgressCommand) (*RecordSectionProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	leagueID, err := h.hier.LeagueIDForSection(ctx, cmd.SectionID)
	if err != nil {
		return nil, fmt.Errorf("record_section_progress: %w", err)
	}

	if err := h.gate.AuthorizeAs(ctx, cmd.UserID, leagueID, cmd.Role); err != nil {
		return nil, err
	}

	row, err := h.store.UpsertSection(ctx, cmd.UserID, cmd.SectionID, cmd.Patch)
	if err != nil {
		return nil, fmt.Errorf("record_section_progress: upsert: %w", err)
	}

	if h.trigger != nil && cmd.Patch.IsCompleted != nil && *cmd.Patch.IsCompleted {
		if err := h.trigger.OnSectionCompleted(ctx, cmd.UserID, cmd.SectionID); err != nil {
			h.log.Warn("achievement flow failed after section completion",
				logger.UserID(cmd.UserID),
				logger.SectionID(cmd.SectionID),
				logger.Err(err),
			)
		}
	}

	league, err := h.aggregator.LeagueSectionCompletion(ctx, cmd.UserID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("record_section_progress: rollup: %w", err)
	}

	return &RecordSectionProgressResult{Progress: row, League: league}, nil
}
