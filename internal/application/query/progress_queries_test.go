package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/internal/infrastructure/persistence/memory"
)

func boolPtr(v bool) *bool { return &v }

type queryFixture struct {
	hier       *memory.Hierarchy
	store      *memory.ProgressStore
	awards     *memory.AwardStore
	aggregator *rollup.Aggregator
}

// newQueryFixture builds league-1 (two weeks, three sections, two resources
// under sec-1) with a badge, plus league-2 and a specialization over both.
func newQueryFixture() *queryFixture {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1", Title: "Go"}).
		AddWeek(hierarchy.Week{ID: "week-1", LeagueID: "league-1", Title: "Basics", Position: 1}).
		AddWeek(hierarchy.Week{ID: "week-2", LeagueID: "league-1", Title: "Concurrency", Position: 2}).
		AddSection(hierarchy.Section{ID: "sec-1", WeekID: "week-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-2", WeekID: "week-1", Position: 2}).
		AddSection(hierarchy.Section{ID: "sec-3", WeekID: "week-2", Position: 1}).
		AddResource(hierarchy.Resource{ID: "res-1", SectionID: "sec-1", Kind: hierarchy.ResourceVideo, Position: 1}).
		AddResource(hierarchy.Resource{ID: "res-2", SectionID: "sec-1", Kind: hierarchy.ResourceArticle, Position: 2}).
		AddLeague(hierarchy.League{ID: "league-2", CohortID: "cohort-1", Title: "SQL"}).
		AddWeek(hierarchy.Week{ID: "week-3", LeagueID: "league-2", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-4", WeekID: "week-3", Position: 1}).
		AddResource(hierarchy.Resource{ID: "res-3", SectionID: "sec-4", Kind: hierarchy.ResourceLink, Position: 1}).
		AddSpecialization(hierarchy.Specialization{ID: "spec-1", CohortID: "cohort-1", Title: "Backend"}, "league-1", "league-2")

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier).
		AddBadge(achievement.Badge{ID: "badge-1", LeagueID: "league-1", Title: "Go Finisher"})

	return &queryFixture{
		hier:       hier,
		store:      store,
		awards:     awards,
		aggregator: rollup.New(hier, store),
	}
}

func (f *queryFixture) complete(t *testing.T, userID string, sectionIDs ...string) {
	t.Helper()
	for _, id := range sectionIDs {
		_, err := f.store.UpsertSection(context.Background(), userID, id, progress.Patch{IsCompleted: boolPtr(true)})
		require.NoError(t, err)
	}
}

func (f *queryFixture) completeResources(t *testing.T, userID string, resourceIDs ...string) {
	t.Helper()
	for _, id := range resourceIDs {
		_, err := f.store.UpsertResource(context.Background(), userID, id, progress.Patch{IsCompleted: boolPtr(true)})
		require.NoError(t, err)
	}
}

func TestGetLeagueProgress(t *testing.T) {
	f := newQueryFixture()
	h := NewGetLeagueProgressHandler(f.hier, f.aggregator, f.awards)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-3")

	res, err := h.Handle(ctx, GetLeagueProgressQuery{UserID: "user-1", LeagueID: "league-1"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.CompletedSections)
	assert.Equal(t, 3, res.TotalSections)
	assert.Equal(t, 67, res.Percent)
	assert.Equal(t, achievement.StateInProgress, res.State)

	require.Len(t, res.Weeks, 2)
	assert.Equal(t, "week-1", res.Weeks[0].WeekID)
	assert.Equal(t, 1, res.Weeks[0].CompletedSections)
	assert.Equal(t, 2, res.Weeks[0].TotalSections)
	assert.Equal(t, 50, res.Weeks[0].Percent)
	assert.Equal(t, "week-2", res.Weeks[1].WeekID)
	assert.Equal(t, 100, res.Weeks[1].Percent)
}

func TestGetLeagueProgressStates(t *testing.T) {
	f := newQueryFixture()
	h := NewGetLeagueProgressHandler(f.hier, f.aggregator, f.awards)
	ctx := context.Background()

	res, err := h.Handle(ctx, GetLeagueProgressQuery{UserID: "user-1", LeagueID: "league-1"})
	require.NoError(t, err)
	assert.Equal(t, achievement.StateNotStarted, res.State)

	f.complete(t, "user-1", "sec-1", "sec-2", "sec-3")

	res, err = h.Handle(ctx, GetLeagueProgressQuery{UserID: "user-1", LeagueID: "league-1"})
	require.NoError(t, err)
	assert.Equal(t, achievement.StateCompleted, res.State)
	assert.Equal(t, 100, res.Percent)
}

func TestGetLeagueProgressBadgeKeepsCompletedAfterReset(t *testing.T) {
	f := newQueryFixture()
	h := NewGetLeagueProgressHandler(f.hier, f.aggregator, f.awards)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2", "sec-3")
	created, err := f.awards.AwardBadge(ctx, "user-1", "badge-1", time.Now().UTC())
	require.NoError(t, err)
	require.True(t, created)

	// A section drops back to incomplete; the earned badge anchors the state.
	_, err = f.store.UpsertSection(ctx, "user-1", "sec-2", progress.Patch{IsCompleted: boolPtr(false)})
	require.NoError(t, err)

	res, err := h.Handle(ctx, GetLeagueProgressQuery{UserID: "user-1", LeagueID: "league-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CompletedSections)
	assert.Equal(t, achievement.StateCompleted, res.State)
}

func TestGetLeagueProgressUnknownLeague(t *testing.T) {
	f := newQueryFixture()
	h := NewGetLeagueProgressHandler(f.hier, f.aggregator, f.awards)

	_, err := h.Handle(context.Background(), GetLeagueProgressQuery{UserID: "user-1", LeagueID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetSectionProgress(t *testing.T) {
	f := newQueryFixture()
	h := NewGetSectionProgressHandler(f.hier, f.store, f.aggregator)
	ctx := context.Background()

	_, err := f.store.UpsertResource(ctx, "user-1", "res-1", progress.Patch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	res, err := h.Handle(ctx, GetSectionProgressQuery{UserID: "user-1", SectionID: "sec-1"})
	require.NoError(t, err)

	// No tracker row yet: the section itself has not been touched.
	assert.Nil(t, res.Tracker)
	assert.Equal(t, 1, res.CompletedResources)
	assert.Equal(t, 2, res.TotalResources)
	assert.Equal(t, 50, res.Percent)
	assert.Equal(t, []string{"res-1"}, res.CompletedIDs)

	f.complete(t, "user-1", "sec-1")

	res, err = h.Handle(ctx, GetSectionProgressQuery{UserID: "user-1", SectionID: "sec-1"})
	require.NoError(t, err)
	require.NotNil(t, res.Tracker)
	assert.True(t, res.Tracker.IsCompleted)
}

func TestGetSectionProgressUnknownSection(t *testing.T) {
	f := newQueryFixture()
	h := NewGetSectionProgressHandler(f.hier, f.store, f.aggregator)

	_, err := h.Handle(context.Background(), GetSectionProgressQuery{UserID: "user-1", SectionID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetSpecializationProgress(t *testing.T) {
	f := newQueryFixture()
	h := NewGetSpecializationProgressHandler(f.hier, f.aggregator, f.awards)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2", "sec-3")

	res, err := h.Handle(ctx, GetSpecializationProgressQuery{UserID: "user-1", SpecializationID: "spec-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.CompletedLeagues)
	assert.Equal(t, 2, res.TotalLeagues)
	assert.Equal(t, 50, res.Percent)
	assert.False(t, res.Earned)

	require.Len(t, res.Leagues, 2)
	assert.True(t, res.Leagues[0].Full)
	assert.Equal(t, "league-1", res.Leagues[0].LeagueID)
	assert.False(t, res.Leagues[1].Full)

	// Full from the live rollup, but no badge has been awarded yet.
	assert.False(t, res.Leagues[0].BadgeEarned)
	assert.False(t, res.Leagues[1].BadgeEarned)
}

func TestGetSpecializationProgressEarned(t *testing.T) {
	f := newQueryFixture()
	f.awards.AddBadge(achievement.Badge{ID: "badge-2", LeagueID: "league-2", Title: "SQL Finisher"})
	h := NewGetSpecializationProgressHandler(f.hier, f.aggregator, f.awards)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2", "sec-3", "sec-4")

	now := time.Now().UTC()
	_, err := f.awards.AwardBadge(ctx, "user-1", "badge-1", now)
	require.NoError(t, err)
	_, err = f.awards.AwardBadge(ctx, "user-1", "badge-2", now)
	require.NoError(t, err)
	created, err := f.awards.AwardSpecialization(ctx, "user-1", "spec-1", now)
	require.NoError(t, err)
	require.True(t, created)

	res, err := h.Handle(ctx, GetSpecializationProgressQuery{UserID: "user-1", SpecializationID: "spec-1"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Percent)
	assert.True(t, res.Earned)
	assert.True(t, res.Leagues[0].BadgeEarned)
	assert.True(t, res.Leagues[1].BadgeEarned)
}
