// Package leaderboard ranks users by completed resource count. Ordering is
// fully deterministic so that two reads over identical data always produce
// the same page.
package leaderboard

import (
	"sort"
	"time"
)

// Entry is one leaderboard row.
type Entry struct {
	UserID          string
	CompletedCount  int
	LastCompletedAt time.Time
	Rank            int
}

// Scope restricts the ranking to resources of one league or of one
// specialization's member leagues. The zero Scope means cohort-wide.
// At most one field may be set.
type Scope struct {
	LeagueID         string
	SpecializationID string
}

// Global reports whether the scope carries no restriction.
func (s Scope) Global() bool {
	return s.LeagueID == "" && s.SpecializationID == ""
}

// SortEntries orders entries in place by the ranking rule:
// completed count descending, then earliest last completion first
// (the user who reached the count sooner ranks higher), then user ID
// ascending as the final tie-break. Ranks are assigned 1..n after sorting.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CompletedCount != b.CompletedCount {
			return a.CompletedCount > b.CompletedCount
		}
		if !a.LastCompletedAt.Equal(b.LastCompletedAt) {
			return a.LastCompletedAt.Before(b.LastCompletedAt)
		}
		return a.UserID < b.UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
