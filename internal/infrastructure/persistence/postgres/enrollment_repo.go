package postgres

import (
	"context"
	"fmt"
)

// EnrollmentRepository implements enrollment.Repository on PostgreSQL.
type EnrollmentRepository struct {
	db Querier
}

// NewEnrollmentRepository creates the repository.
func NewEnrollmentRepository(db Querier) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ExistsForLeague implements enrollment.Repository.
func (r *EnrollmentRepository) ExistsForLeague(ctx context.Context, userID, leagueID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE user_id = $1 AND league_id = $2 AND active
		)
	`, userID, leagueID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: enrollment check: %w", err)
	}
	return exists, nil
}
