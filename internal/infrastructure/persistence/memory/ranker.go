package memory

import (
	"context"

	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
)

// Ranker implements leaderboard.Ranker over the in-memory progress store,
// counting completed resource rows and using leaderboard.SortEntries for
// the ordering.
type Ranker struct {
	store *ProgressStore
	hier  *Hierarchy
}

// NewRanker creates the ranker.
func NewRanker(store *ProgressStore, hier *Hierarchy) *Ranker {
	return &Ranker{store: store, hier: hier}
}

// Top implements leaderboard.Ranker.
func (r *Ranker) Top(ctx context.Context, scope leaderboard.Scope, n int) ([]leaderboard.Entry, error) {
	inScope, err := r.scopeFilter(ctx, scope)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*leaderboard.Entry)
	for _, row := range r.store.CompletedResources() {
		if inScope != nil && !inScope[row.ResourceID] {
			continue
		}
		e, ok := byUser[row.UserID]
		if !ok {
			e = &leaderboard.Entry{UserID: row.UserID}
			byUser[row.UserID] = e
		}
		e.CompletedCount++
		if row.CompletedAt != nil && row.CompletedAt.After(e.LastCompletedAt) {
			e.LastCompletedAt = *row.CompletedAt
		}
	}

	entries := make([]leaderboard.Entry, 0, len(byUser))
	for _, e := range byUser {
		entries = append(entries, *e)
	}

	leaderboard.SortEntries(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// scopeFilter returns the resource ID set for the scope, or nil for global.
func (r *Ranker) scopeFilter(ctx context.Context, scope leaderboard.Scope) (map[string]bool, error) {
	if scope.Global() {
		return nil, nil
	}

	leagueIDs := []string{scope.LeagueID}
	if scope.SpecializationID != "" {
		var err error
		leagueIDs, err = r.hier.LeagueIDsBySpecialization(ctx, scope.SpecializationID)
		if err != nil {
			return nil, err
		}
	}

	inScope := make(map[string]bool)
	for _, leagueID := range leagueIDs {
		sectionIDs, err := r.hier.SectionIDsByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		for _, sectionID := range sectionIDs {
			resourceIDs, err := r.hier.ResourceIDsBySection(ctx, sectionID)
			if err != nil {
				return nil, err
			}
			for _, id := range resourceIDs {
				inScope[id] = true
			}
		}
	}
	return inScope, nil
}
