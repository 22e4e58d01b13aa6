// Package memory provides in-memory implementations of the persistence
// interfaces for tests and local development. All types are safe for
// concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// Hierarchy implements hierarchy.Reader over maps. Content is assembled with
// the Add* builders; child order is insertion order.
type Hierarchy struct {
	mu sync.RWMutex

	leagues  map[string]hierarchy.League
	weeks    map[string]hierarchy.Week
	sections map[string]hierarchy.Section
	resource map[string]hierarchy.Resource
	specs    map[string]hierarchy.Specialization

	weeksByLeague      map[string][]string
	sectionsByWeek     map[string][]string
	resourcesBySection map[string][]string
	leaguesBySpec      map[string][]string
	specsByLeague      map[string][]string
}

// NewHierarchy creates an empty content tree.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		leagues:            make(map[string]hierarchy.League),
		weeks:              make(map[string]hierarchy.Week),
		sections:           make(map[string]hierarchy.Section),
		resource:           make(map[string]hierarchy.Resource),
		specs:              make(map[string]hierarchy.Specialization),
		weeksByLeague:      make(map[string][]string),
		sectionsByWeek:     make(map[string][]string),
		resourcesBySection: make(map[string][]string),
		leaguesBySpec:      make(map[string][]string),
		specsByLeague:      make(map[string][]string),
	}
}

// AddLeague registers a league.
func (h *Hierarchy) AddLeague(l hierarchy.League) *Hierarchy {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leagues[l.ID] = l
	return h
}

// AddWeek registers a week under its league.
func (h *Hierarchy) AddWeek(w hierarchy.Week) *Hierarchy {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.weeks[w.ID] = w
	h.weeksByLeague[w.LeagueID] = append(h.weeksByLeague[w.LeagueID], w.ID)
	return h
}

// AddSection registers a section under its week.
func (h *Hierarchy) AddSection(s hierarchy.Section) *Hierarchy {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sections[s.ID] = s
	h.sectionsByWeek[s.WeekID] = append(h.sectionsByWeek[s.WeekID], s.ID)
	return h
}

// AddResource registers a resource under its section.
func (h *Hierarchy) AddResource(r hierarchy.Resource) *Hierarchy {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resource[r.ID] = r
	h.resourcesBySection[r.SectionID] = append(h.resourcesBySection[r.SectionID], r.ID)
	return h
}

// AddSpecialization registers a specialization and its member leagues.
func (h *Hierarchy) AddSpecialization(s hierarchy.Specialization, leagueIDs ...string) *Hierarchy {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.specs[s.ID] = s
	h.leaguesBySpec[s.ID] = append(h.leaguesBySpec[s.ID], leagueIDs...)
	for _, leagueID := range leagueIDs {
		h.specsByLeague[leagueID] = append(h.specsByLeague[leagueID], s.ID)
	}
	return h
}

// GetLeague implements hierarchy.Reader.
func (h *Hierarchy) GetLeague(_ context.Context, leagueID string) (*hierarchy.League, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if l, ok := h.leagues[leagueID]; ok {
		return &l, nil
	}
	return nil, shared.ErrLeagueNotFound
}

// GetWeek implements hierarchy.Reader.
func (h *Hierarchy) GetWeek(_ context.Context, weekID string) (*hierarchy.Week, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if w, ok := h.weeks[weekID]; ok {
		return &w, nil
	}
	return nil, shared.ErrWeekNotFound
}

// GetSection implements hierarchy.Reader.
func (h *Hierarchy) GetSection(_ context.Context, sectionID string) (*hierarchy.Section, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.sections[sectionID]; ok {
		return &s, nil
	}
	return nil, shared.ErrSectionNotFound
}

// GetResource implements hierarchy.Reader.
func (h *Hierarchy) GetResource(_ context.Context, resourceID string) (*hierarchy.Resource, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.resource[resourceID]; ok {
		return &r, nil
	}
	return nil, shared.ErrResourceNotFound
}

// GetSpecialization implements hierarchy.Reader.
func (h *Hierarchy) GetSpecialization(_ context.Context, specializationID string) (*hierarchy.Specialization, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if s, ok := h.specs[specializationID]; ok {
		return &s, nil
	}
	return nil, shared.ErrSpecializationNotFound
}

// LeagueIDForSection implements hierarchy.Reader.
func (h *Hierarchy) LeagueIDForSection(_ context.Context, sectionID string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sections[sectionID]
	if !ok {
		return "", shared.ErrSectionNotFound
	}
	w, ok := h.weeks[s.WeekID]
	if !ok {
		return "", shared.ErrWeekNotFound
	}
	return w.LeagueID, nil
}

// LeagueIDForResource implements hierarchy.Reader.
func (h *Hierarchy) LeagueIDForResource(ctx context.Context, resourceID string) (string, error) {
	h.mu.RLock()
	r, ok := h.resource[resourceID]
	h.mu.RUnlock()
	if !ok {
		return "", shared.ErrResourceNotFound
	}
	return h.LeagueIDForSection(ctx, r.SectionID)
}

// WeekIDsByLeague implements hierarchy.Reader.
func (h *Hierarchy) WeekIDsByLeague(_ context.Context, leagueID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.weeksByLeague[leagueID]...), nil
}

// SectionIDsByWeek implements hierarchy.Reader.
func (h *Hierarchy) SectionIDsByWeek(_ context.Context, weekID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.sectionsByWeek[weekID]...), nil
}

// SectionIDsByLeague implements hierarchy.Reader.
func (h *Hierarchy) SectionIDsByLeague(_ context.Context, leagueID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []string
	for _, weekID := range h.weeksByLeague[leagueID] {
		out = append(out, h.sectionsByWeek[weekID]...)
	}
	return out, nil
}

// ResourceIDsBySection implements hierarchy.Reader.
func (h *Hierarchy) ResourceIDsBySection(_ context.Context, sectionID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.resourcesBySection[sectionID]...), nil
}

// SpecializationIDsContaining implements hierarchy.Reader.
func (h *Hierarchy) SpecializationIDsContaining(_ context.Context, leagueID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.specsByLeague[leagueID]...), nil
}

// LeagueIDsBySpecialization implements hierarchy.Reader.
func (h *Hierarchy) LeagueIDsBySpecialization(_ context.Context, specializationID string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.leaguesBySpec[specializationID]...), nil
}
