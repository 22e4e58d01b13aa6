package memory

import (
	"context"
	"sync"
)

type enrollmentKey struct {
	userID   string
	cohortID string
	leagueID string
}

// EnrollmentStore implements enrollment.Repository over a set. Uniqueness is
// per (user, cohort, league) triple, so the same user can hold the same
// league through more than one cohort.
type EnrollmentStore struct {
	mu     sync.RWMutex
	active map[enrollmentKey]bool
}

// NewEnrollmentStore creates an empty store.
func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{active: make(map[enrollmentKey]bool)}
}

// Enroll marks the user as actively enrolled in the league under the cohort.
func (s *EnrollmentStore) Enroll(userID, cohortID, leagueID string) *EnrollmentStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[enrollmentKey{userID, cohortID, leagueID}] = true
	return s
}

// Withdraw deactivates one cohort's enrollment. Enrollments in the same
// league through other cohorts stay active.
func (s *EnrollmentStore) Withdraw(userID, cohortID, leagueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, enrollmentKey{userID, cohortID, leagueID})
}

// ExistsForLeague implements enrollment.Repository. Any active enrollment in
// the league satisfies the check, regardless of cohort.
func (s *EnrollmentStore) ExistsForLeague(_ context.Context, userID, leagueID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, active := range s.active {
		if active && k.userID == userID && k.leagueID == leagueID {
			return true, nil
		}
	}
	return false, nil
}
