package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT REPOSITORY
// The primary keys on user_badges and user_specializations carry the
// exactly-once guarantee. Awards are INSERT ... ON CONFLICT DO NOTHING;
// RowsAffected distinguishes "created now" from "already held" and both are
// success. The specialization award folds its completeness check into the
// same statement, so no concurrent badge removal or grant can wedge between
// check and insert.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository implements achievement.AwardRepository on PostgreSQL.
type AchievementRepository struct {
	db Querier
}

// NewAchievementRepository creates the repository.
func NewAchievementRepository(db Querier) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// BadgeByLeague implements achievement.AwardRepository.
func (r *AchievementRepository) BadgeByLeague(ctx context.Context, leagueID string) (*achievement.Badge, error) {
	var b achievement.Badge
	err := r.db.QueryRow(ctx,
		`SELECT id, league_id, title FROM badges WHERE league_id = $1`, leagueID,
	).Scan(&b.ID, &b.LeagueID, &b.Title)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("postgres: badge by league: %w", err)
	}
	return &b, nil
}

// AwardBadge implements achievement.AwardRepository.
func (r *AchievementRepository) AwardBadge(ctx context.Context, userID, badgeID string, earnedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, userID, badgeID, earnedAt)
	if err != nil {
		return false, fmt.Errorf("postgres: award badge: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasBadge implements achievement.AwardRepository.
func (r *AchievementRepository) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_badges WHERE user_id = $1 AND badge_id = $2)
	`, userID, badgeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: badge check: %w", err)
	}
	return exists, nil
}

// BadgeLeaguesHeld implements achievement.AwardRepository.
func (r *AchievementRepository) BadgeLeaguesHeld(ctx context.Context, userID string, leagueIDs []string) ([]string, error) {
	if len(leagueIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT b.league_id
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1 AND b.league_id = ANY($2)
	`, userID, leagueIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres: badge leagues held: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan league id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

// ListUserBadges implements achievement.AwardRepository.
func (r *AchievementRepository) ListUserBadges(ctx context.Context, userID string) ([]achievement.UserBadge, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, badge_id, earned_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list user badges: %w", err)
	}
	defer rows.Close()

	var out []achievement.UserBadge
	for rows.Next() {
		var ub achievement.UserBadge
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan user badge: %w", err)
		}
		out = append(out, ub)
	}

	return out, rows.Err()
}

// AwardSpecialization implements achievement.AwardRepository.
// One statement: the row is inserted only when the user holds a badge for
// every member league and the specialization is non-empty.
func (r *AchievementRepository) AwardSpecialization(ctx context.Context, userID, specializationID string, completedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_specializations (user_id, specialization_id, completed_at)
		SELECT $1, $2, $3
		WHERE (
			SELECT COUNT(*) FROM specialization_leagues sl
			WHERE sl.specialization_id = $2
		) > 0
		AND (
			SELECT COUNT(*) FROM specialization_leagues sl
			WHERE sl.specialization_id = $2
		) = (
			SELECT COUNT(*) FROM specialization_leagues sl
			JOIN badges b ON b.league_id = sl.league_id
			JOIN user_badges ub ON ub.badge_id = b.id AND ub.user_id = $1
			WHERE sl.specialization_id = $2
		)
		ON CONFLICT (user_id, specialization_id) DO NOTHING
	`, userID, specializationID, completedAt)
	if err != nil {
		return false, fmt.Errorf("postgres: award specialization: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasSpecialization implements achievement.AwardRepository.
func (r *AchievementRepository) HasSpecialization(ctx context.Context, userID, specializationID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_specializations
			WHERE user_id = $1 AND specialization_id = $2
		)
	`, userID, specializationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: specialization check: %w", err)
	}
	return exists, nil
}
