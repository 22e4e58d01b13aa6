package achievement

import "github.com/alem-hub/league-progress/internal/domain/shared"

// LeagueState is the per-(user, league) progress state.
// Transitions only move forward: NotStarted → InProgress → Completed.
type LeagueState string

const (
	StateNotStarted LeagueState = "not_started"
	StateInProgress LeagueState = "in_progress"
	StateCompleted  LeagueState = "completed"
)

// DeriveLeagueState computes the state from the live section rollup and the
// badge held. The badge keeps the state Completed even after a section row
// is reset to incomplete: award existence is the monotonic anchor, counts
// are only consulted on the way up.
func DeriveLeagueState(rollup shared.Completion, hasBadge bool) LeagueState {
	if hasBadge || rollup.Full() {
		return StateCompleted
	}
	if rollup.Completed > 0 {
		return StateInProgress
	}
	return StateNotStarted
}
