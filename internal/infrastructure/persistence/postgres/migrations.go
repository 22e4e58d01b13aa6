package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// Versioned, embedded, applied in order inside transactions. The award
// uniqueness constraints created here are load-bearing: AwardBadge and
// AwardSpecialization depend on them for exactly-once semantics.
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// Migrator applies pending migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
}

// NewMigrator creates a Migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn, migrations: Migrations()}
}

// Migrate applies all pending migrations in version order.
func (m *Migrator) Migrate(ctx context.Context) error {
	if _, err := m.conn.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("postgres: create migrations table: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("execute migration %d: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
				mig.Version, mig.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("postgres: migration %d (%s): %w", mig.Version, mig.Name, err)
		}
	}

	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Pool().Query(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("postgres: query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("postgres: scan migration row: %w", err)
		}
		applied[version] = at
	}

	return applied, rows.Err()
}

// Migrations returns the embedded schema in order.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_hierarchy", UpSQL: migration001Hierarchy},
		{Version: 2, Name: "create_enrollments", UpSQL: migration002Enrollments},
		{Version: 3, Name: "create_progress", UpSQL: migration003Progress},
		{Version: 4, Name: "create_achievements", UpSQL: migration004Achievements},
	}
}

const migration001Hierarchy = `
CREATE TABLE IF NOT EXISTS leagues (
    id        TEXT PRIMARY KEY,
    cohort_id TEXT NOT NULL,
    title     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weeks (
    id        TEXT PRIMARY KEY,
    league_id TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    title     TEXT NOT NULL,
    position  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_weeks_league ON weeks(league_id, position);

CREATE TABLE IF NOT EXISTS sections (
    id       TEXT PRIMARY KEY,
    week_id  TEXT NOT NULL REFERENCES weeks(id) ON DELETE CASCADE,
    title    TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sections_week ON sections(week_id, position);

CREATE TABLE IF NOT EXISTS resources (
    id         TEXT PRIMARY KEY,
    section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    kind       TEXT NOT NULL CHECK (kind IN ('video', 'article', 'link')),
    position   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_resources_section ON resources(section_id, position);

CREATE TABLE IF NOT EXISTS specializations (
    id        TEXT PRIMARY KEY,
    cohort_id TEXT NOT NULL,
    title     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS specialization_leagues (
    specialization_id TEXT NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    league_id         TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    PRIMARY KEY (specialization_id, league_id)
);
CREATE INDEX IF NOT EXISTS idx_spec_leagues_league ON specialization_leagues(league_id);
`

const migration002Enrollments = `
CREATE TABLE IF NOT EXISTS enrollments (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    cohort_id  TEXT NOT NULL,
    league_id  TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, cohort_id, league_id)
);
CREATE INDEX IF NOT EXISTS idx_enrollments_user ON enrollments(user_id) WHERE active;
`

const migration003Progress = `
CREATE TABLE IF NOT EXISTS resource_progress (
    user_id             TEXT NOT NULL,
    resource_id         TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
    is_completed        BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at        TIMESTAMPTZ,
    time_spent_seconds  INTEGER CHECK (time_spent_seconds >= 0),
    personal_note       TEXT CHECK (char_length(personal_note) <= 1000),
    marked_for_revision BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, resource_id),
    CHECK (is_completed = (completed_at IS NOT NULL))
);

CREATE TABLE IF NOT EXISTS section_progress (
    user_id             TEXT NOT NULL,
    section_id          TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
    is_completed        BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at        TIMESTAMPTZ,
    time_spent_seconds  INTEGER CHECK (time_spent_seconds >= 0),
    personal_note       TEXT CHECK (char_length(personal_note) <= 1000),
    marked_for_revision BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, section_id),
    CHECK (is_completed = (completed_at IS NOT NULL))
);
CREATE INDEX IF NOT EXISTS idx_section_progress_completed
    ON section_progress(completed_at) WHERE is_completed;
`

const migration004Achievements = `
CREATE TABLE IF NOT EXISTS badges (
    id        TEXT PRIMARY KEY,
    league_id TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    title     TEXT NOT NULL,
    UNIQUE (league_id)
);

CREATE TABLE IF NOT EXISTS user_badges (
    user_id   TEXT NOT NULL,
    badge_id  TEXT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
    earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, badge_id)
);
CREATE INDEX IF NOT EXISTS idx_user_badges_user ON user_badges(user_id, earned_at DESC);

CREATE TABLE IF NOT EXISTS user_specializations (
    user_id           TEXT NOT NULL,
    specialization_id TEXT NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
    completed_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, specialization_id)
);
`
