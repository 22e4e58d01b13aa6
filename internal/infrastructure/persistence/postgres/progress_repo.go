package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY
// One upsert statement per write. The ON CONFLICT SET list is built from the
// patch so untouched columns are never mentioned: two concurrent patches to
// sibling fields of the same row both land. completed_at survives a repeated
// completion via COALESCE against the stored value.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Store on PostgreSQL.
type ProgressRepository struct {
	db Querier
}

// NewProgressRepository creates the repository.
func NewProgressRepository(db Querier) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `user_id, %[1]s, is_completed, completed_at, time_spent_seconds,
	personal_note, marked_for_revision, created_at, updated_at`

// UpsertResource implements progress.Store.
func (r *ProgressRepository) UpsertResource(ctx context.Context, userID, resourceID string, p progress.Patch) (*progress.ResourceProgress, error) {
	row, err := r.upsert(ctx, "resource_progress", "resource_id", userID, resourceID, p)
	if err != nil {
		return nil, err
	}
	return &progress.ResourceProgress{
		UserID:            row.userID,
		ResourceID:        row.keyID,
		IsCompleted:       row.isCompleted,
		CompletedAt:       row.completedAt,
		TimeSpent:         row.timeSpent,
		PersonalNote:      row.personalNote,
		MarkedForRevision: row.markedForRevision,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

// UpsertSection implements progress.Store.
func (r *ProgressRepository) UpsertSection(ctx context.Context, userID, sectionID string, p progress.Patch) (*progress.SectionProgress, error) {
	row, err := r.upsert(ctx, "section_progress", "section_id", userID, sectionID, p)
	if err != nil {
		return nil, err
	}
	return &progress.SectionProgress{
		UserID:            row.userID,
		SectionID:         row.keyID,
		IsCompleted:       row.isCompleted,
		CompletedAt:       row.completedAt,
		TimeSpent:         row.timeSpent,
		PersonalNote:      row.personalNote,
		MarkedForRevision: row.markedForRevision,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

// progressRow is the scan target shared by both tables.
type progressRow struct {
	userID            string
	keyID             string
	isCompleted       bool
	completedAt       *time.Time
	timeSpent         *int
	personalNote      *string
	markedForRevision bool
	createdAt         time.Time
	updatedAt         time.Time
}

func (r *ProgressRepository) upsert(ctx context.Context, table, keyCol, userID, keyID string, p progress.Patch) (*progressRow, error) {
	now := time.Now().UTC()

	// Values for the insert case. The domain constructor applies the patch
	// to a fresh row, including the completed_at stamp. Both tables share
	// the same shape, so the section constructor serves as the carrier.
	fresh := progress.NewSectionProgress(userID, keyID, p, now)

	sets := []string{"updated_at = EXCLUDED.updated_at"}
	if p.IsCompleted != nil {
		if *p.IsCompleted {
			sets = append(sets,
				"is_completed = TRUE",
				fmt.Sprintf("completed_at = COALESCE(%s.completed_at, EXCLUDED.completed_at)", table),
			)
		} else {
			sets = append(sets, "is_completed = FALSE", "completed_at = NULL")
			if p.TimeSpent == nil {
				sets = append(sets, "time_spent_seconds = NULL")
			}
		}
	}
	if p.TimeSpent != nil {
		sets = append(sets, "time_spent_seconds = EXCLUDED.time_spent_seconds")
	}
	if p.PersonalNote != nil {
		sets = append(sets, "personal_note = EXCLUDED.personal_note")
	}
	if p.MarkedForRevision != nil {
		sets = append(sets, "marked_for_revision = EXCLUDED.marked_for_revision")
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, %[2]s) DO UPDATE SET %[3]s
		RETURNING `+progressColumns,
		table, keyCol, strings.Join(sets, ", "),
	)

	row := &progressRow{}
	err := r.db.QueryRow(ctx, query,
		userID, keyID,
		fresh.IsCompleted, fresh.CompletedAt, fresh.TimeSpent,
		fresh.PersonalNote, fresh.MarkedForRevision, now,
	).Scan(
		&row.userID, &row.keyID, &row.isCompleted, &row.completedAt,
		&row.timeSpent, &row.personalNote, &row.markedForRevision,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		// The referenced hierarchy row was removed between validation
		// and write.
		if IsForeignKeyViolation(err) {
			if keyCol == "resource_id" {
				return nil, shared.ErrResourceNotFound
			}
			return nil, shared.ErrSectionNotFound
		}
		return nil, fmt.Errorf("postgres: upsert %s: %w", table, err)
	}

	return row, nil
}

// ResetResource implements progress.Store.
func (r *ProgressRepository) ResetResource(ctx context.Context, userID, resourceID string) (*progress.ResourceProgress, error) {
	query := fmt.Sprintf(`
		UPDATE resource_progress
		SET is_completed = FALSE,
		    completed_at = NULL,
		    time_spent_seconds = NULL,
		    marked_for_revision = FALSE,
		    updated_at = NOW()
		WHERE user_id = $1 AND resource_id = $2
		RETURNING `+progressColumns, "resource_id")

	row := &progressRow{}
	err := r.db.QueryRow(ctx, query, userID, resourceID).Scan(
		&row.userID, &row.keyID, &row.isCompleted, &row.completedAt,
		&row.timeSpent, &row.personalNote, &row.markedForRevision,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("postgres: reset resource progress: %w", err)
	}

	return &progress.ResourceProgress{
		UserID:            row.userID,
		ResourceID:        row.keyID,
		IsCompleted:       row.isCompleted,
		CompletedAt:       row.completedAt,
		TimeSpent:         row.timeSpent,
		PersonalNote:      row.personalNote,
		MarkedForRevision: row.markedForRevision,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

// GetResource implements progress.Store.
func (r *ProgressRepository) GetResource(ctx context.Context, userID, resourceID string) (*progress.ResourceProgress, error) {
	query := fmt.Sprintf(`SELECT `+progressColumns+` FROM resource_progress WHERE user_id = $1 AND resource_id = $2`, "resource_id")

	row := &progressRow{}
	err := r.db.QueryRow(ctx, query, userID, resourceID).Scan(
		&row.userID, &row.keyID, &row.isCompleted, &row.completedAt,
		&row.timeSpent, &row.personalNote, &row.markedForRevision,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("postgres: get resource progress: %w", err)
	}

	return &progress.ResourceProgress{
		UserID:            row.userID,
		ResourceID:        row.keyID,
		IsCompleted:       row.isCompleted,
		CompletedAt:       row.completedAt,
		TimeSpent:         row.timeSpent,
		PersonalNote:      row.personalNote,
		MarkedForRevision: row.markedForRevision,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

// GetSection implements progress.Store.
func (r *ProgressRepository) GetSection(ctx context.Context, userID, sectionID string) (*progress.SectionProgress, error) {
	query := fmt.Sprintf(`SELECT `+progressColumns+` FROM section_progress WHERE user_id = $1 AND section_id = $2`, "section_id")

	row := &progressRow{}
	err := r.db.QueryRow(ctx, query, userID, sectionID).Scan(
		&row.userID, &row.keyID, &row.isCompleted, &row.completedAt,
		&row.timeSpent, &row.personalNote, &row.markedForRevision,
		&row.createdAt, &row.updatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("postgres: get section progress: %w", err)
	}

	return &progress.SectionProgress{
		UserID:            row.userID,
		SectionID:         row.keyID,
		IsCompleted:       row.isCompleted,
		CompletedAt:       row.completedAt,
		TimeSpent:         row.timeSpent,
		PersonalNote:      row.personalNote,
		MarkedForRevision: row.markedForRevision,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

// CompletedSectionIDs implements progress.Store.
func (r *ProgressRepository) CompletedSectionIDs(ctx context.Context, userID string, sectionIDs []string) ([]string, error) {
	return r.completedIDs(ctx, "section_progress", "section_id", userID, sectionIDs)
}

// CompletedResourceIDs implements progress.Store.
func (r *ProgressRepository) CompletedResourceIDs(ctx context.Context, userID string, resourceIDs []string) ([]string, error) {
	return r.completedIDs(ctx, "resource_progress", "resource_id", userID, resourceIDs)
}

func (r *ProgressRepository) completedIDs(ctx context.Context, table, keyCol, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %[2]s FROM %[1]s
		WHERE user_id = $1 AND %[2]s = ANY($2) AND is_completed
	`, table, keyCol)

	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: completed %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan completed id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

// RecentSectionCompletions implements progress.Store.
func (r *ProgressRepository) RecentSectionCompletions(ctx context.Context, since time.Time) ([]progress.SectionCompletion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, section_id, completed_at
		FROM section_progress
		WHERE is_completed AND completed_at >= $1
		ORDER BY completed_at
	`, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent section completions: %w", err)
	}
	defer rows.Close()

	var out []progress.SectionCompletion
	for rows.Next() {
		var c progress.SectionCompletion
		if err := rows.Scan(&c.UserID, &c.SectionID, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan section completion: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
