// Package rollup computes completion counts at every hierarchy level by
// joining live Progress Store state against the live Content Hierarchy at
// query time. No denormalized counter is ever trusted as the source of
// truth, so rollups stay consistent with the underlying rows even if an
// achievement computation was skipped or delayed.
package rollup

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// Aggregator is the read-side completion calculator.
// It is pure computation over its two injected collaborators.
type Aggregator struct {
	hier  hierarchy.Reader
	store progress.Store
}

// New creates an Aggregator.
func New(hier hierarchy.Reader, store progress.Store) *Aggregator {
	return &Aggregator{hier: hier, store: store}
}

// SectionCompletionCount counts completed sections under a week.
func (a *Aggregator) SectionCompletionCount(ctx context.Context, userID, weekID string) (shared.Completion, error) {
	sectionIDs, err := a.hier.SectionIDsByWeek(ctx, weekID)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: sections of week %s: %w", weekID, err)
	}
	return a.countSections(ctx, userID, sectionIDs)
}

// LeagueSectionCompletion counts completed sections across all weeks of a
// league. This is the quantity the achievement trigger watches.
func (a *Aggregator) LeagueSectionCompletion(ctx context.Context, userID, leagueID string) (shared.Completion, error) {
	sectionIDs, err := a.hier.SectionIDsByLeague(ctx, leagueID)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: sections of league %s: %w", leagueID, err)
	}
	return a.countSections(ctx, userID, sectionIDs)
}

// ResourceCompletionCount counts completed resources under a section.
func (a *Aggregator) ResourceCompletionCount(ctx context.Context, userID, sectionID string) (shared.Completion, error) {
	resourceIDs, err := a.hier.ResourceIDsBySection(ctx, sectionID)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: resources of section %s: %w", sectionID, err)
	}
	if len(resourceIDs) == 0 {
		return shared.Completion{}, nil
	}

	completed, err := a.store.CompletedResourceIDs(ctx, userID, resourceIDs)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: completed resources: %w", err)
	}

	return shared.Completion{Completed: len(completed), Total: len(resourceIDs)}, nil
}

// SpecializationCompletion counts, over a specialization's member leagues,
// how many the user has fully section-completed.
func (a *Aggregator) SpecializationCompletion(ctx context.Context, userID, specializationID string) (shared.Completion, error) {
	leagueIDs, err := a.hier.LeagueIDsBySpecialization(ctx, specializationID)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: leagues of specialization %s: %w", specializationID, err)
	}

	out := shared.Completion{Total: len(leagueIDs)}
	for _, leagueID := range leagueIDs {
		c, err := a.LeagueSectionCompletion(ctx, userID, leagueID)
		if err != nil {
			return shared.Completion{}, err
		}
		if c.Full() {
			out.Completed++
		}
	}
	return out, nil
}

func (a *Aggregator) countSections(ctx context.Context, userID string, sectionIDs []string) (shared.Completion, error) {
	if len(sectionIDs) == 0 {
		return shared.Completion{}, nil
	}

	completed, err := a.store.CompletedSectionIDs(ctx, userID, sectionIDs)
	if err != nil {
		return shared.Completion{}, fmt.Errorf("rollup: completed sections: %w", err)
	}

	return shared.Completion{Completed: len(completed), Total: len(sectionIDs)}, nil
}
