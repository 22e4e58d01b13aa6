package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/league-progress/config"
	"github.com/alem-hub/league-progress/internal/application/query"
	"github.com/alem-hub/league-progress/internal/application/saga"
	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/league-progress/pkg/logger"
)

func boolPtr(v bool) *bool { return &v }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

type countingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *countingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *countingPublisher) count(t shared.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

func TestSweepRecoversMissedAward(t *testing.T) {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1"}).
		AddWeek(hierarchy.Week{ID: "week-1", LeagueID: "league-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-1", WeekID: "week-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-2", WeekID: "week-1", Position: 2})

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier).
		AddBadge(achievement.Badge{ID: "badge-1", LeagueID: "league-1", Title: "Go Finisher"})
	publisher := &countingPublisher{}

	flow := saga.NewAwardFlow(hier, rollup.New(hier, store), awards, publisher, testLogger(), saga.AwardFlowConfig{})
	r := NewReconciler(store, hier, flow, nil, config.SchedulerConfig{
		ReconcileSpec:   "@every 10m",
		ReconcileWindow: time.Hour,
	}, testLogger())

	ctx := context.Background()

	// Both sections completed, but the live trigger never ran.
	for _, id := range []string{"sec-1", "sec-2"} {
		_, err := store.UpsertSection(ctx, "user-1", id, progress.Patch{IsCompleted: boolPtr(true)})
		require.NoError(t, err)
	}

	require.NoError(t, r.Sweep(ctx))

	held, err := awards.HasBadge(ctx, "user-1", "badge-1")
	assert.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, 1, publisher.count(shared.EventBadgeEarned))

	// A second sweep finds the award already in place and stays quiet.
	require.NoError(t, r.Sweep(ctx))
	assert.Equal(t, 1, publisher.count(shared.EventBadgeEarned))
}

func TestSweepSkipsOrphanCompletions(t *testing.T) {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1"})

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier)
	flow := saga.NewAwardFlow(hier, rollup.New(hier, store), awards, nil, testLogger(), saga.AwardFlowConfig{})
	r := NewReconciler(store, hier, flow, nil, config.SchedulerConfig{
		ReconcileSpec:   "@every 10m",
		ReconcileWindow: time.Hour,
	}, testLogger())

	ctx := context.Background()

	// Completion against a section the hierarchy no longer knows.
	_, err := store.UpsertSection(ctx, "user-1", "ghost-sec", progress.Patch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	assert.NoError(t, r.Sweep(ctx))
}

type pageCache struct {
	mu      sync.Mutex
	entries []leaderboard.Entry
	sets    int
}

func (c *pageCache) Get(context.Context, leaderboard.Scope, int) ([]leaderboard.Entry, bool, error) {
	return nil, false, nil
}

func (c *pageCache) Set(_ context.Context, _ leaderboard.Scope, _ int, entries []leaderboard.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.sets++
	return nil
}

func TestSweepRefreshesLeaderboardCache(t *testing.T) {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1"}).
		AddWeek(hierarchy.Week{ID: "week-1", LeagueID: "league-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-1", WeekID: "week-1", Position: 1}).
		AddResource(hierarchy.Resource{ID: "res-1", SectionID: "sec-1", Kind: hierarchy.ResourceVideo, Position: 1})

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier)
	cache := &pageCache{}
	lb := query.NewGetLeaderboardHandler(memory.NewRanker(store, hier), cache, testLogger())

	flow := saga.NewAwardFlow(hier, rollup.New(hier, store), awards, nil, testLogger(), saga.AwardFlowConfig{})
	r := NewReconciler(store, hier, flow, lb, config.SchedulerConfig{
		ReconcileSpec:   "@every 10m",
		ReconcileWindow: time.Hour,
	}, testLogger())

	ctx := context.Background()

	_, err := store.UpsertResource(ctx, "user-1", "res-1", progress.Patch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	_, err = store.UpsertSection(ctx, "user-1", "sec-1", progress.Patch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	require.NoError(t, r.Sweep(ctx))

	assert.Equal(t, 1, cache.sets)
	require.Len(t, cache.entries, 1)
	assert.Equal(t, "user-1", cache.entries[0].UserID)
	assert.Equal(t, 1, cache.entries[0].CompletedCount)
}

func TestStartAndStop(t *testing.T) {
	hier := memory.NewHierarchy()
	store := memory.NewProgressStore()
	flow := saga.NewAwardFlow(hier, rollup.New(hier, store), memory.NewAwardStore(hier), nil, testLogger(), saga.AwardFlowConfig{})

	r := NewReconciler(store, hier, flow, nil, config.SchedulerConfig{
		ReconcileSpec:   "@every 1h",
		ReconcileWindow: time.Hour,
	}, testLogger())

	require.NoError(t, r.Start())
	r.Stop()
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	hier := memory.NewHierarchy()
	store := memory.NewProgressStore()
	flow := saga.NewAwardFlow(hier, rollup.New(hier, store), memory.NewAwardStore(hier), nil, testLogger(), saga.AwardFlowConfig{})

	r := NewReconciler(store, hier, flow, nil, config.SchedulerConfig{
		ReconcileSpec:   "not a cron spec",
		ReconcileWindow: time.Hour,
	}, testLogger())

	assert.Error(t, r.Start())
}
