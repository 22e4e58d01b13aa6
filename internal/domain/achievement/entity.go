// Package achievement holds badges, specialization completions, and the
// contract for awarding them exactly once. Award rows are monotonic: once
// created, nothing in this core removes them, even if the progress that
// earned them is later reset.
package achievement

import "time"

// Badge is tied one-to-one to a league and awarded when the user has
// completed every section of that league.
type Badge struct {
	ID       string
	LeagueID string
	Title    string
}

// UserBadge records that a user earned a badge. (userID, badgeID) is unique.
type UserBadge struct {
	UserID   string
	BadgeID  string
	EarnedAt time.Time
}

// UserSpecialization records that a user completed a specialization, i.e.
// held a badge for every member league at award time.
// (userID, specializationID) is unique.
type UserSpecialization struct {
	UserID           string
	SpecializationID string
	CompletedAt      time.Time
}
