package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HIERARCHY REPOSITORY
// Read-only access to the content tree. Mutation of this tree belongs to the
// content administration system, not this service.
// ══════════════════════════════════════════════════════════════════════════════

// HierarchyRepository implements hierarchy.Reader on PostgreSQL.
type HierarchyRepository struct {
	db Querier
}

// NewHierarchyRepository creates the repository.
func NewHierarchyRepository(db Querier) *HierarchyRepository {
	return &HierarchyRepository{db: db}
}

// GetLeague implements hierarchy.Reader.
func (r *HierarchyRepository) GetLeague(ctx context.Context, leagueID string) (*hierarchy.League, error) {
	var l hierarchy.League
	err := r.db.QueryRow(ctx,
		`SELECT id, cohort_id, title FROM leagues WHERE id = $1`, leagueID,
	).Scan(&l.ID, &l.CohortID, &l.Title)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLeagueNotFound
		}
		return nil, fmt.Errorf("postgres: get league: %w", err)
	}
	return &l, nil
}

// GetWeek implements hierarchy.Reader.
func (r *HierarchyRepository) GetWeek(ctx context.Context, weekID string) (*hierarchy.Week, error) {
	var w hierarchy.Week
	err := r.db.QueryRow(ctx,
		`SELECT id, league_id, title, position FROM weeks WHERE id = $1`, weekID,
	).Scan(&w.ID, &w.LeagueID, &w.Title, &w.Position)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrWeekNotFound
		}
		return nil, fmt.Errorf("postgres: get week: %w", err)
	}
	return &w, nil
}

// GetSection implements hierarchy.Reader.
func (r *HierarchyRepository) GetSection(ctx context.Context, sectionID string) (*hierarchy.Section, error) {
	var s hierarchy.Section
	err := r.db.QueryRow(ctx,
		`SELECT id, week_id, title, position FROM sections WHERE id = $1`, sectionID,
	).Scan(&s.ID, &s.WeekID, &s.Title, &s.Position)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSectionNotFound
		}
		return nil, fmt.Errorf("postgres: get section: %w", err)
	}
	return &s, nil
}

// GetResource implements hierarchy.Reader.
func (r *HierarchyRepository) GetResource(ctx context.Context, resourceID string) (*hierarchy.Resource, error) {
	var res hierarchy.Resource
	err := r.db.QueryRow(ctx,
		`SELECT id, section_id, title, kind, position FROM resources WHERE id = $1`, resourceID,
	).Scan(&res.ID, &res.SectionID, &res.Title, &res.Kind, &res.Position)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrResourceNotFound
		}
		return nil, fmt.Errorf("postgres: get resource: %w", err)
	}
	return &res, nil
}

// GetSpecialization implements hierarchy.Reader.
func (r *HierarchyRepository) GetSpecialization(ctx context.Context, specializationID string) (*hierarchy.Specialization, error) {
	var s hierarchy.Specialization
	err := r.db.QueryRow(ctx,
		`SELECT id, cohort_id, title FROM specializations WHERE id = $1`, specializationID,
	).Scan(&s.ID, &s.CohortID, &s.Title)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSpecializationNotFound
		}
		return nil, fmt.Errorf("postgres: get specialization: %w", err)
	}
	return &s, nil
}

// LeagueIDForSection implements hierarchy.Reader.
func (r *HierarchyRepository) LeagueIDForSection(ctx context.Context, sectionID string) (string, error) {
	var leagueID string
	err := r.db.QueryRow(ctx, `
		SELECT w.league_id
		FROM sections s
		JOIN weeks w ON w.id = s.week_id
		WHERE s.id = $1
	`, sectionID).Scan(&leagueID)
	if err != nil {
		if IsNoRows(err) {
			return "", shared.ErrSectionNotFound
		}
		return "", fmt.Errorf("postgres: league for section: %w", err)
	}
	return leagueID, nil
}

// LeagueIDForResource implements hierarchy.Reader.
func (r *HierarchyRepository) LeagueIDForResource(ctx context.Context, resourceID string) (string, error) {
	var leagueID string
	err := r.db.QueryRow(ctx, `
		SELECT w.league_id
		FROM resources res
		JOIN sections s ON s.id = res.section_id
		JOIN weeks w ON w.id = s.week_id
		WHERE res.id = $1
	`, resourceID).Scan(&leagueID)
	if err != nil {
		if IsNoRows(err) {
			return "", shared.ErrResourceNotFound
		}
		return "", fmt.Errorf("postgres: league for resource: %w", err)
	}
	return leagueID, nil
}

// WeekIDsByLeague implements hierarchy.Reader.
func (r *HierarchyRepository) WeekIDsByLeague(ctx context.Context, leagueID string) ([]string, error) {
	return r.ids(ctx, `SELECT id FROM weeks WHERE league_id = $1 ORDER BY position`, leagueID)
}

// SectionIDsByWeek implements hierarchy.Reader.
func (r *HierarchyRepository) SectionIDsByWeek(ctx context.Context, weekID string) ([]string, error) {
	return r.ids(ctx, `SELECT id FROM sections WHERE week_id = $1 ORDER BY position`, weekID)
}

// SectionIDsByLeague implements hierarchy.Reader.
func (r *HierarchyRepository) SectionIDsByLeague(ctx context.Context, leagueID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT s.id
		FROM sections s
		JOIN weeks w ON w.id = s.week_id
		WHERE w.league_id = $1
		ORDER BY w.position, s.position
	`, leagueID)
}

// ResourceIDsBySection implements hierarchy.Reader.
func (r *HierarchyRepository) ResourceIDsBySection(ctx context.Context, sectionID string) ([]string, error) {
	return r.ids(ctx, `SELECT id FROM resources WHERE section_id = $1 ORDER BY position`, sectionID)
}

// SpecializationIDsContaining implements hierarchy.Reader.
func (r *HierarchyRepository) SpecializationIDsContaining(ctx context.Context, leagueID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT specialization_id FROM specialization_leagues
		WHERE league_id = $1
		ORDER BY specialization_id
	`, leagueID)
}

// LeagueIDsBySpecialization implements hierarchy.Reader.
func (r *HierarchyRepository) LeagueIDsBySpecialization(ctx context.Context, specializationID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT league_id FROM specialization_leagues
		WHERE specialization_id = $1
		ORDER BY league_id
	`, specializationID)
}

func (r *HierarchyRepository) ids(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("postgres: hierarchy ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}
