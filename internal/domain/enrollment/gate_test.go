package enrollment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/internal/infrastructure/persistence/memory"
)

func TestGateAuthorize(t *testing.T) {
	enrollments := memory.NewEnrollmentStore().Enroll("user-1", "cohort-1", "league-1")
	gate := NewGate(enrollments)
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, "user-1", "league-1"))

	err := gate.Authorize(ctx, "user-2", "league-1")
	assert.ErrorIs(t, err, shared.ErrNotEnrolled)
	assert.True(t, shared.IsForbidden(err))

	// Enrollment in a different league does not authorize this one.
	err = gate.Authorize(ctx, "user-1", "league-2")
	assert.ErrorIs(t, err, shared.ErrNotEnrolled)
}

func TestGateWithdrawRevokesAccess(t *testing.T) {
	enrollments := memory.NewEnrollmentStore().Enroll("user-1", "cohort-1", "league-1")
	gate := NewGate(enrollments)
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, "user-1", "league-1"))

	enrollments.Withdraw("user-1", "cohort-1", "league-1")
	assert.ErrorIs(t, gate.Authorize(ctx, "user-1", "league-1"), shared.ErrNotEnrolled)
}

func TestGateDualCohortEnrollment(t *testing.T) {
	// The same league held through two cohorts; each enrollment stands alone.
	enrollments := memory.NewEnrollmentStore().
		Enroll("user-1", "cohort-1", "league-1").
		Enroll("user-1", "cohort-2", "league-1")
	gate := NewGate(enrollments)
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, "user-1", "league-1"))

	enrollments.Withdraw("user-1", "cohort-1", "league-1")
	assert.NoError(t, gate.Authorize(ctx, "user-1", "league-1"))

	enrollments.Withdraw("user-1", "cohort-2", "league-1")
	assert.ErrorIs(t, gate.Authorize(ctx, "user-1", "league-1"), shared.ErrNotEnrolled)
}

func TestGateRoleBypass(t *testing.T) {
	gate := NewGate(memory.NewEnrollmentStore())
	ctx := context.Background()

	assert.NoError(t, gate.AuthorizeAs(ctx, "admin-1", "league-1", RoleAdmin))
	assert.NoError(t, gate.AuthorizeAs(ctx, "mentor-1", "league-1", RoleMentor))
	assert.ErrorIs(t, gate.AuthorizeAs(ctx, "user-1", "league-1", RoleLearner), shared.ErrNotEnrolled)
}

func TestGateRejectsEmptyIDs(t *testing.T) {
	gate := NewGate(memory.NewEnrollmentStore())
	ctx := context.Background()

	assert.ErrorIs(t, gate.Authorize(ctx, "", "league-1"), shared.ErrInvalidID)
	assert.ErrorIs(t, gate.Authorize(ctx, "user-1", "  "), shared.ErrInvalidID)
}
