package saga

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
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

// capturingPublisher records published events synchronously, so assertions
// never race against the async bus.
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// awardFixture is a two-section league with a badge, fully wired flow.
type awardFixture struct {
	hier      *memory.Hierarchy
	store     *memory.ProgressStore
	awards    *memory.AwardStore
	publisher *capturingPublisher
	flow      *AwardFlow
}

func newAwardFixture(cascade bool) *awardFixture {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1"}).
		AddWeek(hierarchy.Week{ID: "week-1", LeagueID: "league-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-1", WeekID: "week-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-2", WeekID: "week-1", Position: 2})

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier).
		AddBadge(achievement.Badge{ID: "badge-1", LeagueID: "league-1", Title: "Go Finisher"})
	publisher := &capturingPublisher{}

	flow := NewAwardFlow(hier, rollup.New(hier, store), awards, publisher, testLogger(), AwardFlowConfig{
		EnableSpecializationCascade: cascade,
	})

	return &awardFixture{hier: hier, store: store, awards: awards, publisher: publisher, flow: flow}
}

func (f *awardFixture) complete(t *testing.T, userID string, sectionIDs ...string) {
	t.Helper()
	for _, id := range sectionIDs {
		_, err := f.store.UpsertSection(context.Background(), userID, id, progress.Patch{IsCompleted: boolPtr(true)})
		require.NoError(t, err)
	}
}

func TestAwardFlowGrantsBadgeOnFullLeague(t *testing.T) {
	f := newAwardFixture(false)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2")
	assert.NoError(t, f.flow.OnSectionCompleted(ctx, "user-1", "sec-2"))

	held, err := f.awards.HasBadge(ctx, "user-1", "badge-1")
	assert.NoError(t, err)
	assert.True(t, held)

	events := f.publisher.byType(shared.EventBadgeEarned)
	require.Len(t, events, 1)
	earned := events[0].(shared.BadgeEarnedEvent)
	assert.Equal(t, "user-1", earned.UserID)
	assert.Equal(t, "badge-1", earned.BadgeID)
	assert.Equal(t, "league-1", earned.LeagueID)
}

func TestAwardFlowPartialLeagueAwardsNothing(t *testing.T) {
	f := newAwardFixture(false)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1")
	assert.NoError(t, f.flow.OnSectionCompleted(ctx, "user-1", "sec-1"))

	held, err := f.awards.HasBadge(ctx, "user-1", "badge-1")
	assert.NoError(t, err)
	assert.False(t, held)
	assert.Empty(t, f.publisher.byType(shared.EventBadgeEarned))
}

func TestAwardFlowRepeatRunPublishesOnce(t *testing.T) {
	f := newAwardFixture(false)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2")
	assert.NoError(t, f.flow.RunForLeague(ctx, "user-1", "league-1"))
	assert.NoError(t, f.flow.RunForLeague(ctx, "user-1", "league-1"))
	assert.NoError(t, f.flow.OnSectionCompleted(ctx, "user-1", "sec-1"))

	assert.Len(t, f.publisher.byType(shared.EventBadgeEarned), 1)
}

func TestAwardFlowConcurrentRunsAwardExactlyOnce(t *testing.T) {
	f := newAwardFixture(false)
	ctx := context.Background()

	f.complete(t, "user-1", "sec-1", "sec-2")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.flow.RunForLeague(ctx, "user-1", "league-1"))
		}()
	}
	wg.Wait()

	assert.Len(t, f.publisher.byType(shared.EventBadgeEarned), 1)
}

func TestAwardFlowLeagueWithoutBadge(t *testing.T) {
	hier := memory.NewHierarchy().
		AddLeague(hierarchy.League{ID: "league-1", CohortID: "cohort-1"}).
		AddWeek(hierarchy.Week{ID: "week-1", LeagueID: "league-1", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-1", WeekID: "week-1", Position: 1})

	store := memory.NewProgressStore()
	awards := memory.NewAwardStore(hier)
	publisher := &capturingPublisher{}
	flow := NewAwardFlow(hier, rollup.New(hier, store), awards, publisher, testLogger(), AwardFlowConfig{})

	ctx := context.Background()
	_, err := store.UpsertSection(ctx, "user-1", "sec-1", progress.Patch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	assert.NoError(t, flow.RunForLeague(ctx, "user-1", "league-1"))
	assert.Empty(t, publisher.events)
}

func TestAwardFlowSpecializationCascade(t *testing.T) {
	f := newAwardFixture(true)
	f.hier.
		AddLeague(hierarchy.League{ID: "league-2", CohortID: "cohort-1"}).
		AddWeek(hierarchy.Week{ID: "week-2", LeagueID: "league-2", Position: 1}).
		AddSection(hierarchy.Section{ID: "sec-3", WeekID: "week-2", Position: 1}).
		AddSpecialization(hierarchy.Specialization{ID: "spec-1", CohortID: "cohort-1"}, "league-1", "league-2")
	f.awards.AddBadge(achievement.Badge{ID: "badge-2", LeagueID: "league-2", Title: "Advanced Finisher"})

	ctx := context.Background()

	// First league done: badge yes, specialization not yet.
	f.complete(t, "user-1", "sec-1", "sec-2")
	assert.NoError(t, f.flow.OnSectionCompleted(ctx, "user-1", "sec-2"))

	held, err := f.awards.HasSpecialization(ctx, "user-1", "spec-1")
	assert.NoError(t, err)
	assert.False(t, held)

	// Second league done: both badges held, specialization completes.
	f.complete(t, "user-1", "sec-3")
	assert.NoError(t, f.flow.OnSectionCompleted(ctx, "user-1", "sec-3"))

	held, err = f.awards.HasSpecialization(ctx, "user-1", "spec-1")
	assert.NoError(t, err)
	assert.True(t, held)

	specEvents := f.publisher.byType(shared.EventSpecializationCompleted)
	require.Len(t, specEvents, 1)
	completed := specEvents[0].(shared.SpecializationCompletedEvent)
	assert.Equal(t, "user-1", completed.UserID)
	assert.Equal(t, "spec-1", completed.SpecializationID)

	// Re-running stays quiet.
	assert.NoError(t, f.flow.RunForLeague(ctx, "user-1", "league-2"))
	assert.Len(t, f.publisher.byType(shared.EventSpecializationCompleted), 1)
}

func TestAwardFlowCascadeDisabled(t *testing.T) {
	f := newAwardFixture(false)
	f.hier.AddSpecialization(hierarchy.Specialization{ID: "spec-1", CohortID: "cohort-1"}, "league-1")

	ctx := context.Background()
	f.complete(t, "user-1", "sec-1", "sec-2")
	assert.NoError(t, f.flow.RunForLeague(ctx, "user-1", "league-1"))

	held, err := f.awards.HasSpecialization(ctx, "user-1", "spec-1")
	assert.NoError(t, err)
	assert.False(t, held)
	assert.Empty(t, f.publisher.byType(shared.EventSpecializationCompleted))
}

func TestAwardFlowNilPublisher(t *testing.T) {
	f := newAwardFixture(false)
	flow := NewAwardFlow(f.hier, rollup.New(f.hier, f.store), f.awards, nil, testLogger(), AwardFlowConfig{})

	ctx := context.Background()
	f.complete(t, "user-1", "sec-1", "sec-2")
	assert.NoError(t, flow.RunForLeague(ctx, "user-1", "league-1"))

	held, err := f.awards.HasBadge(ctx, "user-1", "badge-1")
	assert.NoError(t, err)
	assert.True(t, held)
}
