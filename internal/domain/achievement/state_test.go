package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alem-hub/league-progress/internal/domain/shared"
)

func TestDeriveLeagueState(t *testing.T) {
	assert.Equal(t, StateNotStarted, DeriveLeagueState(shared.Completion{Completed: 0, Total: 5}, false))
	assert.Equal(t, StateInProgress, DeriveLeagueState(shared.Completion{Completed: 2, Total: 5}, false))
	assert.Equal(t, StateCompleted, DeriveLeagueState(shared.Completion{Completed: 5, Total: 5}, false))

	// An empty league never reaches Completed on counts alone.
	assert.Equal(t, StateNotStarted, DeriveLeagueState(shared.Completion{}, false))
}

func TestDeriveLeagueStateBadgeIsMonotonicAnchor(t *testing.T) {
	// After a reset drops the count below full, the badge keeps the state.
	assert.Equal(t, StateCompleted, DeriveLeagueState(shared.Completion{Completed: 3, Total: 5}, true))
	assert.Equal(t, StateCompleted, DeriveLeagueState(shared.Completion{Completed: 0, Total: 5}, true))
}
