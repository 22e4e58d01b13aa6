package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY
// Ranks by completed resource rows. The ORDER BY mirrors leaderboard.SortEntries
// exactly: count desc, earliest last completion first, user id asc.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Ranker on PostgreSQL.
type LeaderboardRepository struct {
	db Querier
}

// NewLeaderboardRepository creates the repository.
func NewLeaderboardRepository(db Querier) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Top implements leaderboard.Ranker.
func (r *LeaderboardRepository) Top(ctx context.Context, scope leaderboard.Scope, n int) ([]leaderboard.Entry, error) {
	query, args := topQuery(scope, n)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: leaderboard top: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.UserID, &e.CompletedCount, &e.LastCompletedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

func topQuery(scope leaderboard.Scope, n int) (string, []any) {
	const ordering = `
		GROUP BY rp.user_id
		ORDER BY COUNT(*) DESC, MAX(rp.completed_at) ASC, rp.user_id ASC
		LIMIT %s`

	switch {
	case scope.LeagueID != "":
		return fmt.Sprintf(`
			SELECT rp.user_id, COUNT(*), MAX(rp.completed_at)
			FROM resource_progress rp
			JOIN resources res ON res.id = rp.resource_id
			JOIN sections s ON s.id = res.section_id
			JOIN weeks w ON w.id = s.week_id
			WHERE rp.is_completed AND w.league_id = $1
		`+ordering, "$2"), []any{scope.LeagueID, n}

	case scope.SpecializationID != "":
		return fmt.Sprintf(`
			SELECT rp.user_id, COUNT(*), MAX(rp.completed_at)
			FROM resource_progress rp
			JOIN resources res ON res.id = rp.resource_id
			JOIN sections s ON s.id = res.section_id
			JOIN weeks w ON w.id = s.week_id
			JOIN specialization_leagues sl ON sl.league_id = w.league_id
			WHERE rp.is_completed AND sl.specialization_id = $1
		`+ordering, "$2"), []any{scope.SpecializationID, n}

	default:
		return fmt.Sprintf(`
			SELECT rp.user_id, COUNT(*), MAX(rp.completed_at)
			FROM resource_progress rp
			WHERE rp.is_completed
		`+ordering, "$1"), []any{n}
	}
}
