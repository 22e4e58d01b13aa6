package hierarchy

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// READER INTERFACE
// The Content Hierarchy is an external collaborator: this core only reads it.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Reader provides read-only access to the content tree.
// Every lookup returns shared.ErrNotFound (wrapped) for missing entities.
type Reader interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Entity lookups
	// ─────────────────────────────────────────────────────────────────────────

	// GetLeague returns a league by ID.
	GetLeague(ctx context.Context, leagueID string) (*League, error)

	// GetWeek returns a week by ID.
	GetWeek(ctx context.Context, weekID string) (*Week, error)

	// GetSection returns a section by ID.
	GetSection(ctx context.Context, sectionID string) (*Section, error)

	// GetResource returns a resource by ID.
	GetResource(ctx context.Context, resourceID string) (*Resource, error)

	// GetSpecialization returns a specialization by ID.
	GetSpecialization(ctx context.Context, specializationID string) (*Specialization, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Ancestry
	// ─────────────────────────────────────────────────────────────────────────

	// LeagueIDForSection resolves the league owning a section.
	LeagueIDForSection(ctx context.Context, sectionID string) (string, error)

	// LeagueIDForResource resolves the league owning a resource.
	LeagueIDForResource(ctx context.Context, resourceID string) (string, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Children (IDs in hierarchy order)
	// ─────────────────────────────────────────────────────────────────────────

	// WeekIDsByLeague returns the week IDs of a league in position order.
	WeekIDsByLeague(ctx context.Context, leagueID string) ([]string, error)

	// SectionIDsByWeek returns the section IDs of a week in position order.
	SectionIDsByWeek(ctx context.Context, weekID string) ([]string, error)

	// SectionIDsByLeague returns all section IDs of a league across its weeks.
	SectionIDsByLeague(ctx context.Context, leagueID string) ([]string, error)

	// ResourceIDsBySection returns the resource IDs of a section in position order.
	ResourceIDsBySection(ctx context.Context, sectionID string) ([]string, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Specializations
	// ─────────────────────────────────────────────────────────────────────────

	// SpecializationIDsContaining returns the specializations that include a league.
	SpecializationIDsContaining(ctx context.Context, leagueID string) ([]string, error)

	// LeagueIDsBySpecialization returns a specialization's member leagues in order.
	LeagueIDsBySpecialization(ctx context.Context, specializationID string) ([]string, error)
}
