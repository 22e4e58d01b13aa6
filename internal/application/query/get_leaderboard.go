package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Top-N users by completed resource count, optionally scoped to one league or
// one specialization. Ordering is deterministic: count desc, earliest last
// completion first, user ID asc. A cache sits in front of the ranker when
// configured; cache failures fall through to the ranker.
// ══════════════════════════════════════════════════════════════════════════════

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// GetLeaderboardQuery contains leaderboard parameters.
type GetLeaderboardQuery struct {
	// Limit is the page size (defaults to 10, capped at 100).
	Limit int

	// LeagueID scopes the ranking to one league's resources.
	LeagueID string

	// SpecializationID scopes the ranking to the resources of a
	// specialization's member leagues.
	SpecializationID string
}

// Validate normalizes the limit and rejects a doubly scoped query.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = defaultLeaderboardLimit
	}
	if q.Limit > maxLeaderboardLimit {
		q.Limit = maxLeaderboardLimit
	}
	if q.LeagueID != "" && q.SpecializationID != "" {
		return errors.New("league and specialization scopes are mutually exclusive")
	}
	return nil
}

// Scope converts the query's scope fields.
func (q GetLeaderboardQuery) Scope() leaderboard.Scope {
	return leaderboard.Scope{LeagueID: q.LeagueID, SpecializationID: q.SpecializationID}
}

// GetLeaderboardResult contains the ranked page.
type GetLeaderboardResult struct {
	Entries     []leaderboard.Entry `json:"entries"`
	FromCache   bool                `json:"from_cache"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// GetLeaderboardHandler handles the query.
type GetLeaderboardHandler struct {
	ranker leaderboard.Ranker
	cache  leaderboard.Cache
	log    *logger.Logger
}

// NewGetLeaderboardHandler creates the handler. cache may be nil.
func NewGetLeaderboardHandler(ranker leaderboard.Ranker, cache leaderboard.Cache, log *logger.Logger) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{ranker: ranker, cache: cache, log: log}
}

// Handle serves the page, read-through via the cache when one is configured.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.NewDomainError("leaderboard", "GetLeaderboard", shared.ErrValidation, err.Error())
	}

	scope := q.Scope()

	if h.cache != nil {
		entries, ok, err := h.cache.Get(ctx, scope, q.Limit)
		if err != nil {
			h.log.Warn("leaderboard cache read failed", logger.Err(err))
		} else if ok {
			return &GetLeaderboardResult{Entries: entries, FromCache: true, GeneratedAt: time.Now().UTC()}, nil
		}
	}

	entries, err := h.ranker.Top(ctx, scope, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, scope, q.Limit, entries); err != nil {
			h.log.Warn("leaderboard cache write failed", logger.Err(err))
		}
	}

	return &GetLeaderboardResult{Entries: entries, GeneratedAt: time.Now().UTC()}, nil
}

// Refresh recomputes the page from the ranker and writes it through to the
// cache, skipping the cache read. The reconciliation sweep calls this so the
// cached page reflects freshly reconciled completions.
func (h *GetLeaderboardHandler) Refresh(ctx context.Context, q GetLeaderboardQuery) error {
	if err := q.Validate(); err != nil {
		return shared.NewDomainError("leaderboard", "RefreshLeaderboard", shared.ErrValidation, err.Error())
	}

	scope := q.Scope()

	entries, err := h.ranker.Top(ctx, scope, q.Limit)
	if err != nil {
		return fmt.Errorf("refresh_leaderboard: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, scope, q.Limit, entries); err != nil {
			return fmt.Errorf("refresh_leaderboard: cache write: %w", err)
		}
	}

	return nil
}
