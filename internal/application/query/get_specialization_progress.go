package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SPECIALIZATION PROGRESS QUERY
// Counts, over a specialization's member leagues, how many the user has
// fully completed, plus whether the specialization award has been earned.
// ══════════════════════════════════════════════════════════════════════════════

// GetSpecializationProgressQuery identifies the (user, specialization) pair.
type GetSpecializationProgressQuery struct {
	UserID           string
	SpecializationID string
}

// Validate checks the query parameters.
func (q GetSpecializationProgressQuery) Validate() error {
	if !shared.ValidID(q.UserID) || !shared.ValidID(q.SpecializationID) {
		return shared.NewDomainError("query", "GetSpecializationProgress", shared.ErrInvalidID, "user and specialization IDs are required")
	}
	return nil
}

// LeagueSliceDTO is one member league's contribution. Full tracks the live
// rollup; BadgeEarned tracks the monotonic award, so the two can disagree
// after a reset.
type LeagueSliceDTO struct {
	LeagueID    string `json:"league_id"`
	Title       string `json:"title"`
	Completed   int    `json:"completed_sections"`
	Total       int    `json:"total_sections"`
	Percent     int    `json:"percent"`
	Full        bool   `json:"full"`
	BadgeEarned bool   `json:"badge_earned"`
}

// GetSpecializationProgressResult is the specialization rollup.
type GetSpecializationProgressResult struct {
	SpecializationID string           `json:"specialization_id"`
	UserID           string           `json:"user_id"`
	CompletedLeagues int              `json:"completed_leagues"`
	TotalLeagues     int              `json:"total_leagues"`
	Percent          int              `json:"percent"`
	Earned           bool             `json:"earned"`
	Leagues          []LeagueSliceDTO `json:"leagues"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// GetSpecializationProgressHandler handles the query.
type GetSpecializationProgressHandler struct {
	hier       hierarchy.Reader
	aggregator *rollup.Aggregator
	awards     achievement.AwardRepository
}

// NewGetSpecializationProgressHandler creates the handler.
func NewGetSpecializationProgressHandler(
	hier hierarchy.Reader,
	aggregator *rollup.Aggregator,
	awards achievement.AwardRepository,
) *GetSpecializationProgressHandler {
	return &GetSpecializationProgressHandler{hier: hier, aggregator: aggregator, awards: awards}
}

// Handle computes the rollup. An unknown specialization returns
// shared.ErrSpecializationNotFound.
func (h *GetSpecializationProgressHandler) Handle(ctx context.Context, q GetSpecializationProgressQuery) (*GetSpecializationProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.hier.GetSpecialization(ctx, q.SpecializationID); err != nil {
		return nil, fmt.Errorf("get_specialization_progress: %w", err)
	}

	leagueIDs, err := h.hier.LeagueIDsBySpecialization(ctx, q.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("get_specialization_progress: leagues: %w", err)
	}

	heldLeagues, err := h.awards.BadgeLeaguesHeld(ctx, q.UserID, leagueIDs)
	if err != nil {
		return nil, fmt.Errorf("get_specialization_progress: badges held: %w", err)
	}
	held := make(map[string]bool, len(heldLeagues))
	for _, id := range heldLeagues {
		held[id] = true
	}

	result := &GetSpecializationProgressResult{
		SpecializationID: q.SpecializationID,
		UserID:           q.UserID,
		Leagues:          make([]LeagueSliceDTO, 0, len(leagueIDs)),
		GeneratedAt:      time.Now().UTC(),
	}

	total := shared.Completion{Total: len(leagueIDs)}
	for _, leagueID := range leagueIDs {
		league, err := h.hier.GetLeague(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get_specialization_progress: league %s: %w", leagueID, err)
		}

		c, err := h.aggregator.LeagueSectionCompletion(ctx, q.UserID, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get_specialization_progress: league rollup: %w", err)
		}

		if c.Full() {
			total.Completed++
		}
		result.Leagues = append(result.Leagues, LeagueSliceDTO{
			LeagueID:    leagueID,
			Title:       league.Title,
			Completed:   c.Completed,
			Total:       c.Total,
			Percent:     c.Percent(),
			Full:        c.Full(),
			BadgeEarned: held[leagueID],
		})
	}

	earned, err := h.awards.HasSpecialization(ctx, q.UserID, q.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("get_specialization_progress: award check: %w", err)
	}

	result.CompletedLeagues = total.Completed
	result.TotalLeagues = total.Total
	result.Percent = total.Percent()
	result.Earned = earned

	return result, nil
}
