package achievement

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD REPOSITORY
// The uniqueness constraints on (user, badge) and (user, specialization) are
// the single source of truth for "has this been awarded". Every award method
// is insert-or-ignore: racing writers both succeed, exactly one row appears,
// and the boolean tells the caller whether this call created it. Check-then-
// insert must never be the only guard.
// ══════════════════════════════════════════════════════════════════════════════

// AwardRepository persists badges and awards.
type AwardRepository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Badge catalog
	// ─────────────────────────────────────────────────────────────────────────

	// BadgeByLeague returns the badge attached to a league, or
	// shared.ErrNotFound when the league has none configured.
	BadgeByLeague(ctx context.Context, leagueID string) (*Badge, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Badge awards
	// ─────────────────────────────────────────────────────────────────────────

	// AwardBadge atomically creates the (userID, badgeID) row.
	// Returns (true, nil) when this call created the row and (false, nil)
	// when the badge was already held; both are success.
	AwardBadge(ctx context.Context, userID, badgeID string, earnedAt time.Time) (bool, error)

	// HasBadge reports whether the user holds the badge.
	HasBadge(ctx context.Context, userID, badgeID string) (bool, error)

	// BadgeLeaguesHeld returns, from the given league IDs, those for which
	// the user holds the league's badge.
	BadgeLeaguesHeld(ctx context.Context, userID string, leagueIDs []string) ([]string, error)

	// ListUserBadges returns all badges held by the user, newest first.
	ListUserBadges(ctx context.Context, userID string) ([]UserBadge, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Specialization awards
	// ─────────────────────────────────────────────────────────────────────────

	// AwardSpecialization atomically creates the (userID, specializationID)
	// row, but only if the user holds a badge for every member league and the
	// specialization has at least one member. The completeness check and the
	// insert happen as one atomic operation against the store. Returns
	// (true, nil) on creation, (false, nil) when already held or not yet
	// complete.
	AwardSpecialization(ctx context.Context, userID, specializationID string, completedAt time.Time) (bool, error)

	// HasSpecialization reports whether the user completed the specialization.
	HasSpecialization(ctx context.Context, userID, specializationID string) (bool, error)
}
