package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

func TestGetUserBadges(t *testing.T) {
	f := newQueryFixture()
	f.awards.AddBadge(achievement.Badge{ID: "badge-2", LeagueID: "league-2", Title: "SQL Finisher"})
	h := NewGetUserBadgesHandler(f.awards)
	ctx := context.Background()

	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(48 * time.Hour)
	_, err := f.awards.AwardBadge(ctx, "user-1", "badge-1", earlier)
	require.NoError(t, err)
	_, err = f.awards.AwardBadge(ctx, "user-1", "badge-2", later)
	require.NoError(t, err)

	res, err := h.Handle(ctx, GetUserBadgesQuery{UserID: "user-1"})
	require.NoError(t, err)

	require.Len(t, res.Badges, 2)
	assert.Equal(t, "badge-2", res.Badges[0].BadgeID)
	assert.Equal(t, later, res.Badges[0].EarnedAt)
	assert.Equal(t, "badge-1", res.Badges[1].BadgeID)
}

func TestGetUserBadgesEmpty(t *testing.T) {
	f := newQueryFixture()
	h := NewGetUserBadgesHandler(f.awards)

	res, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, res.Badges)

	_, err = h.Handle(context.Background(), GetUserBadgesQuery{})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
