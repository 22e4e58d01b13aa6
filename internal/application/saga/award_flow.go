// Package saga contains multi-step business processes that orchestrate
// several domain operations.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/league-progress/internal/domain/achievement"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD FLOW SAGA
// Flow: Resolve League → Recompute Rollup → Award Badge (insert-or-ignore) →
//
//	Publish BadgeEarned → Cascade Specializations → Publish per award
//
// Every award is an atomic insert-or-ignore against the store's uniqueness
// constraint. Concurrent runs for the same user both reach the award step and
// both succeed; exactly one creates the row and only that run publishes the
// event. There is no check-then-act window anywhere in the flow.
// ══════════════════════════════════════════════════════════════════════════════

// AwardFlowConfig tunes the saga.
type AwardFlowConfig struct {
	// EnableSpecializationCascade controls whether a full league also
	// attempts specialization awards for every specialization the league
	// belongs to.
	EnableSpecializationCascade bool
}

// AwardFlow runs the achievement checks after a section completion.
type AwardFlow struct {
	hier       hierarchy.Reader
	aggregator *rollup.Aggregator
	awards     achievement.AwardRepository
	publisher  shared.EventPublisher
	log        *logger.Logger
	cascade    bool
}

// NewAwardFlow creates the saga. publisher may be nil to disable events.
func NewAwardFlow(
	hier hierarchy.Reader,
	aggregator *rollup.Aggregator,
	awards achievement.AwardRepository,
	publisher shared.EventPublisher,
	log *logger.Logger,
	cfg AwardFlowConfig,
) *AwardFlow {
	return &AwardFlow{
		hier:       hier,
		aggregator: aggregator,
		awards:     awards,
		publisher:  publisher,
		log:        log,
		cascade:    cfg.EnableSpecializationCascade,
	}
}

// OnSectionCompleted resolves the section's league and runs the award checks
// for it. Called by the section progress command and by reconciliation.
func (f *AwardFlow) OnSectionCompleted(ctx context.Context, userID, sectionID string) error {
	leagueID, err := f.hier.LeagueIDForSection(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("award_flow: resolve league for section %s: %w", sectionID, err)
	}
	return f.RunForLeague(ctx, userID, leagueID)
}

// RunForLeague recomputes the league rollup and, if the league is fully
// complete, awards its badge and cascades into specializations. Safe to call
// any number of times for the same (user, league).
func (f *AwardFlow) RunForLeague(ctx context.Context, userID, leagueID string) error {
	c, err := f.aggregator.LeagueSectionCompletion(ctx, userID, leagueID)
	if err != nil {
		return fmt.Errorf("award_flow: league rollup: %w", err)
	}
	if !c.Full() {
		return nil
	}

	now := time.Now().UTC()

	badge, err := f.awards.BadgeByLeague(ctx, leagueID)
	if err != nil {
		if shared.IsNotFound(err) {
			// League without a configured badge. Nothing to award and the
			// specialization completeness check can never pass either.
			return nil
		}
		return fmt.Errorf("award_flow: badge lookup: %w", err)
	}

	created, err := f.awards.AwardBadge(ctx, userID, badge.ID, now)
	if err != nil {
		return fmt.Errorf("award_flow: award badge %s: %w", badge.ID, err)
	}
	if created {
		f.log.Info("badge earned",
			logger.UserID(userID),
			logger.LeagueID(leagueID),
			logger.BadgeID(badge.ID),
		)
		f.publish(shared.NewBadgeEarnedEvent(userID, badge.ID, leagueID))
	}

	if !f.cascade {
		return nil
	}

	// The cascade runs on every full rollup, not only when this call created
	// the badge. A badge awarded earlier whose specialization membership
	// changed, or an award recovered by reconciliation, still completes here.
	return f.cascadeSpecializations(ctx, userID, leagueID, now)
}

func (f *AwardFlow) cascadeSpecializations(ctx context.Context, userID, leagueID string, now time.Time) error {
	specIDs, err := f.hier.SpecializationIDsContaining(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("award_flow: specializations of league %s: %w", leagueID, err)
	}

	for _, specID := range specIDs {
		created, err := f.awards.AwardSpecialization(ctx, userID, specID, now)
		if err != nil {
			return fmt.Errorf("award_flow: award specialization %s: %w", specID, err)
		}
		if created {
			f.log.Info("specialization completed",
				logger.UserID(userID),
				logger.String("specialization_id", specID),
			)
			f.publish(shared.NewSpecializationCompletedEvent(userID, specID))
		}
	}

	return nil
}

func (f *AwardFlow) publish(event shared.Event) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.Publish(event); err != nil {
		f.log.Warn("event publish failed", logger.String("event", string(event.EventType())), logger.Err(err))
	}
}
