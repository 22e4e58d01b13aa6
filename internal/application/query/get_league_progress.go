// Package query contains read operations following CQRS pattern.
// Queries never modify state.
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
// GET LEAGUE PROGRESS QUERY
// One user's rollup for a league: section counts per week, the league total,
// the rounded percentage, and the derived state. Everything is computed live
// against the progress store.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeagueProgressQuery identifies the (user, league) pair.
type GetLeagueProgressQuery struct {
	UserID   string
	LeagueID string
}

// Validate checks the query parameters.
func (q GetLeagueProgressQuery) Validate() error {
	if !shared.ValidID(q.UserID) || !shared.ValidID(q.LeagueID) {
		return shared.NewDomainError("query", "GetLeagueProgress", shared.ErrInvalidID, "user and league IDs are required")
	}
	return nil
}

// WeekProgressDTO is the per-week slice of the rollup.
type WeekProgressDTO struct {
	WeekID            string `json:"week_id"`
	Title             string `json:"title"`
	Position          int    `json:"position"`
	CompletedSections int    `json:"completed_sections"`
	TotalSections     int    `json:"total_sections"`
	Percent           int    `json:"percent"`
}

// GetLeagueProgressResult is the full league rollup.
type GetLeagueProgressResult struct {
	LeagueID          string                  `json:"league_id"`
	UserID            string                  `json:"user_id"`
	State             achievement.LeagueState `json:"state"`
	CompletedSections int                     `json:"completed_sections"`
	TotalSections     int                     `json:"total_sections"`
	Percent           int                     `json:"percent"`
	Weeks             []WeekProgressDTO       `json:"weeks"`
	GeneratedAt       time.Time               `json:"generated_at"`
}

// GetLeagueProgressHandler handles the query.
type GetLeagueProgressHandler struct {
	hier       hierarchy.Reader
	aggregator *rollup.Aggregator
	awards     achievement.AwardRepository
}

// NewGetLeagueProgressHandler creates the handler.
func NewGetLeagueProgressHandler(
	hier hierarchy.Reader,
	aggregator *rollup.Aggregator,
	awards achievement.AwardRepository,
) *GetLeagueProgressHandler {
	return &GetLeagueProgressHandler{hier: hier, aggregator: aggregator, awards: awards}
}

// Handle computes the rollup. An unknown league returns shared.ErrLeagueNotFound.
func (h *GetLeagueProgressHandler) Handle(ctx context.Context, q GetLeagueProgressQuery) (*GetLeagueProgressResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.hier.GetLeague(ctx, q.LeagueID); err != nil {
		return nil, fmt.Errorf("get_league_progress: %w", err)
	}

	weekIDs, err := h.hier.WeekIDsByLeague(ctx, q.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("get_league_progress: weeks: %w", err)
	}

	result := &GetLeagueProgressResult{
		LeagueID:    q.LeagueID,
		UserID:      q.UserID,
		Weeks:       make([]WeekProgressDTO, 0, len(weekIDs)),
		GeneratedAt: time.Now().UTC(),
	}

	total := shared.Completion{}
	for _, weekID := range weekIDs {
		week, err := h.hier.GetWeek(ctx, weekID)
		if err != nil {
			return nil, fmt.Errorf("get_league_progress: week %s: %w", weekID, err)
		}

		c, err := h.aggregator.SectionCompletionCount(ctx, q.UserID, weekID)
		if err != nil {
			return nil, fmt.Errorf("get_league_progress: week rollup: %w", err)
		}

		total = total.Add(c)
		result.Weeks = append(result.Weeks, WeekProgressDTO{
			WeekID:            weekID,
			Title:             week.Title,
			Position:          week.Position,
			CompletedSections: c.Completed,
			TotalSections:     c.Total,
			Percent:           c.Percent(),
		})
	}

	hasBadge, err := h.leagueBadgeHeld(ctx, q.UserID, q.LeagueID)
	if err != nil {
		return nil, err
	}

	result.CompletedSections = total.Completed
	result.TotalSections = total.Total
	result.Percent = total.Percent()
	result.State = achievement.DeriveLeagueState(total, hasBadge)

	return result, nil
}

func (h *GetLeagueProgressHandler) leagueBadgeHeld(ctx context.Context, userID, leagueID string) (bool, error) {
	badge, err := h.awards.BadgeByLeague(ctx, leagueID)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get_league_progress: badge lookup: %w", err)
	}

	held, err := h.awards.HasBadge(ctx, userID, badge.ID)
	if err != nil {
		return false, fmt.Errorf("get_league_progress: badge check: %w", err)
	}
	return held, nil
}
