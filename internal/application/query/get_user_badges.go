package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER BADGES QUERY
// Every badge a user holds, newest first. The award rows are monotonic, so
// this list only ever grows.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserBadgesQuery identifies the user.
type GetUserBadgesQuery struct {
	UserID string
}

// Validate checks the query parameters.
func (q GetUserBadgesQuery) Validate() error {
	if !shared.ValidID(q.UserID) {
		return shared.NewDomainError("query", "GetUserBadges", shared.ErrInvalidID, "user ID is required")
	}
	return nil
}

// UserBadgeDTO is one earned badge.
type UserBadgeDTO struct {
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// GetUserBadgesResult lists the user's badges, newest first.
type GetUserBadgesResult struct {
	UserID      string         `json:"user_id"`
	Badges      []UserBadgeDTO `json:"badges"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// GetUserBadgesHandler handles the query.
type GetUserBadgesHandler struct {
	awards achievement.AwardRepository
}

// NewGetUserBadgesHandler creates the handler.
func NewGetUserBadgesHandler(awards achievement.AwardRepository) *GetUserBadgesHandler {
	return &GetUserBadgesHandler{awards: awards}
}

// Handle lists the badges. A user with no badges gets an empty list, not an
// error.
func (h *GetUserBadgesHandler) Handle(ctx context.Context, q GetUserBadgesQuery) (*GetUserBadgesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	badges, err := h.awards.ListUserBadges(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_user_badges: %w", err)
	}

	result := &GetUserBadgesResult{
		UserID:      q.UserID,
		Badges:      make([]UserBadgeDTO, 0, len(badges)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, b := range badges {
		result.Badges = append(result.Badges, UserBadgeDTO{BadgeID: b.BadgeID, EarnedAt: b.EarnedAt})
	}

	return result, nil
}
