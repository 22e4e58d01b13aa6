package enrollment

import (
	"context"
	"fmt"

	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// Repository answers enrollment existence questions.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// ExistsForLeague reports whether an active enrollment exists for
	// (userID, any cohort, leagueID). Cohort does not need to match for
	// authorization; league membership is what is checked.
	ExistsForLeague(ctx context.Context, userID, leagueID string) (bool, error)
}

// Gate is the Access Gate consulted before any progress write.
// It is read-only and side-effect free.
type Gate struct {
	repo Repository

	// bypassRole is the minimum role allowed to write without an enrollment.
	// Defaults to RoleMentor: mentors and admins act on learners' progress
	// without being enrolled themselves.
	bypassRole Role
}

// NewGate creates a Gate backed by the given repository.
func NewGate(repo Repository) *Gate {
	return &Gate{repo: repo, bypassRole: RoleMentor}
}

// Authorize returns nil when the user may record progress against the league,
// and shared.ErrNotEnrolled (a Forbidden error) otherwise.
func (g *Gate) Authorize(ctx context.Context, userID, leagueID string) error {
	return g.AuthorizeAs(ctx, userID, leagueID, RoleLearner)
}

// AuthorizeAs is Authorize with the caller's role taken into account.
// Roles at or above the bypass level skip the enrollment lookup.
func (g *Gate) AuthorizeAs(ctx context.Context, userID, leagueID string, role Role) error {
	if !shared.ValidID(userID) || !shared.ValidID(leagueID) {
		return shared.NewDomainError("enrollment", "Authorize", shared.ErrInvalidID, "user and league IDs are required")
	}

	if role.AtLeast(g.bypassRole) {
		return nil
	}

	ok, err := g.repo.ExistsForLeague(ctx, userID, leagueID)
	if err != nil {
		return fmt.Errorf("enrollment gate: %w", err)
	}
	if !ok {
		return shared.ErrNotEnrolled
	}

	return nil
}
