package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/shared"
)

type awardKey struct {
	userID string
	id     string
}

// AwardStore implements achievement.AwardRepository over maps. The single
// mutex gives the same first-writer-wins behavior the database constraints
// provide: of two racing awards exactly one observes created = true.
type AwardStore struct {
	hier *Hierarchy

	mu            sync.Mutex
	badgesByLg    map[string]achievement.Badge
	userBadges    map[awardKey]achievement.UserBadge
	userSpecs     map[awardKey]achievement.UserSpecialization
	badgeToLeague map[string]string
}

// NewAwardStore creates an empty store. The hierarchy supplies specialization
// membership for the completeness check.
func NewAwardStore(hier *Hierarchy) *AwardStore {
	return &AwardStore{
		hier:          hier,
		badgesByLg:    make(map[string]achievement.Badge),
		userBadges:    make(map[awardKey]achievement.UserBadge),
		userSpecs:     make(map[awardKey]achievement.UserSpecialization),
		badgeToLeague: make(map[string]string),
	}
}

// AddBadge registers a badge for its league.
func (s *AwardStore) AddBadge(b achievement.Badge) *AwardStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badgesByLg[b.LeagueID] = b
	s.badgeToLeague[b.ID] = b.LeagueID
	return s
}

// BadgeByLeague implements achievement.AwardRepository.
func (s *AwardStore) BadgeByLeague(_ context.Context, leagueID string) (*achievement.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.badgesByLg[leagueID]; ok {
		return &b, nil
	}
	return nil, shared.ErrBadgeNotFound
}

// AwardBadge implements achievement.AwardRepository.
func (s *AwardStore) AwardBadge(_ context.Context, userID, badgeID string, earnedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := awardKey{userID, badgeID}
	if _, held := s.userBadges[k]; held {
		return false, nil
	}
	s.userBadges[k] = achievement.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: earnedAt}
	return true, nil
}

// HasBadge implements achievement.AwardRepository.
func (s *AwardStore) HasBadge(_ context.Context, userID, badgeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.userBadges[awardKey{userID, badgeID}]
	return held, nil
}

// BadgeLeaguesHeld implements achievement.AwardRepository.
func (s *AwardStore) BadgeLeaguesHeld(_ context.Context, userID string, leagueIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, leagueID := range leagueIDs {
		badge, ok := s.badgesByLg[leagueID]
		if !ok {
			continue
		}
		if _, held := s.userBadges[awardKey{userID, badge.ID}]; held {
			out = append(out, leagueID)
		}
	}
	return out, nil
}

// ListUserBadges implements achievement.AwardRepository.
func (s *AwardStore) ListUserBadges(_ context.Context, userID string) ([]achievement.UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []achievement.UserBadge
	for k, ub := range s.userBadges {
		if k.userID == userID {
			out = append(out, ub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EarnedAt.After(out[j].EarnedAt) })
	return out, nil
}

// AwardSpecialization implements achievement.AwardRepository. The membership
// check and the insert run under one lock acquisition, mirroring the single
// atomic statement of the PostgreSQL implementation.
func (s *AwardStore) AwardSpecialization(ctx context.Context, userID, specializationID string, completedAt time.Time) (bool, error) {
	leagueIDs, err := s.hier.LeagueIDsBySpecialization(ctx, specializationID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := awardKey{userID, specializationID}
	if _, held := s.userSpecs[k]; held {
		return false, nil
	}

	if len(leagueIDs) == 0 {
		return false, nil
	}
	for _, leagueID := range leagueIDs {
		badge, ok := s.badgesByLg[leagueID]
		if !ok {
			return false, nil
		}
		if _, held := s.userBadges[awardKey{userID, badge.ID}]; !held {
			return false, nil
		}
	}

	s.userSpecs[k] = achievement.UserSpecialization{
		UserID:           userID,
		SpecializationID: specializationID,
		CompletedAt:      completedAt,
	}
	return true, nil
}

// HasSpecialization implements achievement.AwardRepository.
func (s *AwardStore) HasSpecialization(_ context.Context, userID, specializationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.userSpecs[awardKey{userID, specializationID}]
	return held, nil
}
