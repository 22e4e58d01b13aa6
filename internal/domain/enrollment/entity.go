// Package enrollment guards progress writes: a user must hold an active
// enrollment in a league before any progress against that league is accepted.
package enrollment

import "time"

// Enrollment grants a user the right to record progress within a
// (cohort, league) pair. At most one active enrollment exists per
// (user, cohort, league) triple.
type Enrollment struct {
	ID        string
	UserID    string
	CohortID  string
	LeagueID  string
	Active    bool
	CreatedAt time.Time
}

// Role orders the access levels that can bypass the enrollment check.
type Role int

const (
	RoleLearner Role = iota
	RoleMentor
	RoleAdmin
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleLearner:
		return "learner"
	case RoleMentor:
		return "mentor"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// AtLeast reports whether the role grants at least the given level.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}
