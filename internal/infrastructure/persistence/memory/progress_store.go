package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

type progressKey struct {
	userID string
	id     string
}

// ProgressStore implements progress.Store over maps. Each upsert holds the
// store lock for the whole merge, matching the per-row atomicity of the
// PostgreSQL implementation.
type ProgressStore struct {
	mu        sync.Mutex
	resources map[progressKey]*progress.ResourceProgress
	sections  map[progressKey]*progress.SectionProgress
}

// NewProgressStore creates an empty store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		resources: make(map[progressKey]*progress.ResourceProgress),
		sections:  make(map[progressKey]*progress.SectionProgress),
	}
}

// UpsertResource implements progress.Store.
func (s *ProgressStore) UpsertResource(_ context.Context, userID, resourceID string, p progress.Patch) (*progress.ResourceProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	k := progressKey{userID, resourceID}
	row, ok := s.resources[k]
	if !ok {
		row = progress.NewResourceProgress(userID, resourceID, p, now)
		s.resources[k] = row
	} else {
		row.Apply(p, now)
	}

	clone := *row
	return &clone, nil
}

// UpsertSection implements progress.Store.
func (s *ProgressStore) UpsertSection(_ context.Context, userID, sectionID string, p progress.Patch) (*progress.SectionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	k := progressKey{userID, sectionID}
	row, ok := s.sections[k]
	if !ok {
		row = progress.NewSectionProgress(userID, sectionID, p, now)
		s.sections[k] = row
	} else {
		row.Apply(p, now)
	}

	clone := *row
	return &clone, nil
}

// ResetResource implements progress.Store.
func (s *ProgressStore) ResetResource(_ context.Context, userID, resourceID string) (*progress.ResourceProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.resources[progressKey{userID, resourceID}]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}

	row.Reset(time.Now().UTC())
	clone := *row
	return &clone, nil
}

// GetResource implements progress.Store.
func (s *ProgressStore) GetResource(_ context.Context, userID, resourceID string) (*progress.ResourceProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.resources[progressKey{userID, resourceID}]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	clone := *row
	return &clone, nil
}

// GetSection implements progress.Store.
func (s *ProgressStore) GetSection(_ context.Context, userID, sectionID string) (*progress.SectionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.sections[progressKey{userID, sectionID}]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	clone := *row
	return &clone, nil
}

// CompletedSectionIDs implements progress.Store.
func (s *ProgressStore) CompletedSectionIDs(_ context.Context, userID string, sectionIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, id := range sectionIDs {
		if row, ok := s.sections[progressKey{userID, id}]; ok && row.IsCompleted {
			out = append(out, id)
		}
	}
	return out, nil
}

// CompletedResourceIDs implements progress.Store.
func (s *ProgressStore) CompletedResourceIDs(_ context.Context, userID string, resourceIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, id := range resourceIDs {
		if row, ok := s.resources[progressKey{userID, id}]; ok && row.IsCompleted {
			out = append(out, id)
		}
	}
	return out, nil
}

// CompletedResources returns a snapshot of every completed resource row.
// Memory-only helper backing the in-memory leaderboard ranker.
func (s *ProgressStore) CompletedResources() []progress.ResourceProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []progress.ResourceProgress
	for _, row := range s.resources {
		if row.IsCompleted {
			out = append(out, *row)
		}
	}
	return out
}

// RecentSectionCompletions implements progress.Store.
func (s *ProgressStore) RecentSectionCompletions(_ context.Context, since time.Time) ([]progress.SectionCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []progress.SectionCompletion
	for k, row := range s.sections {
		if row.IsCompleted && row.CompletedAt != nil && !row.CompletedAt.Before(since) {
			out = append(out, progress.SectionCompletion{
				UserID:      k.userID,
				SectionID:   k.id,
				CompletedAt: *row.CompletedAt,
			})
		}
	}
	return out, nil
}
