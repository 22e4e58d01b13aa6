// Package scheduler runs the periodic award reconciliation sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alem-hub/league-progress/config"
	"github.com/alem-hub/league-progress/internal/application/query"
	"github.com/alem-hub/league-progress/internal/application/saga"
	"github.com/alem-hub/league-progress/internal/domain/hierarchy"
	"github.com/alem-hub/league-progress/internal/domain/progress"
	"github.com/alem-hub/league-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD RECONCILER
// Safety net behind the live achievement trigger: if an award flow was lost
// after its section completion committed (process crash, storage outage),
// the sweep re-runs the flow for every league touched in the window. The
// flow's insert-or-ignore awards make re-running free for the common case
// where the badge already exists.
// ══════════════════════════════════════════════════════════════════════════════

// Reconciler periodically re-runs award checks over recent completions.
type Reconciler struct {
	store       progress.Store
	hier        hierarchy.Reader
	flow        *saga.AwardFlow
	leaderboard *query.GetLeaderboardHandler
	window      time.Duration
	spec        string
	cron        *cron.Cron
	log         *logger.Logger
}

// NewReconciler creates the reconciler from scheduler configuration.
// leaderboard may be nil; when set, each sweep rewrites the cached global
// leaderboard page after the award pass.
func NewReconciler(
	store progress.Store,
	hier hierarchy.Reader,
	flow *saga.AwardFlow,
	leaderboard *query.GetLeaderboardHandler,
	cfg config.SchedulerConfig,
	log *logger.Logger,
) *Reconciler {
	return &Reconciler{
		store:       store,
		hier:        hier,
		flow:        flow,
		leaderboard: leaderboard,
		window:      cfg.ReconcileWindow,
		spec:        cfg.ReconcileSpec,
		cron:        cron.New(),
		log:         log.With(logger.Component("reconciler")),
	}
}

// Start schedules the sweep and begins the cron loop.
func (r *Reconciler) Start() error {
	if _, err := r.cron.AddFunc(r.spec, func() {
		if err := r.Sweep(context.Background()); err != nil {
			r.log.Error("reconciliation sweep failed", logger.Err(err))
		}
	}); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("reconciler started", logger.String("spec", r.spec), logger.Duration("window", r.window))
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Sweep re-runs the award flow once per (user, league) touched by a section
// completion inside the window.
func (r *Reconciler) Sweep(ctx context.Context) error {
	since := time.Now().UTC().Add(-r.window)

	completions, err := r.store.RecentSectionCompletions(ctx, since)
	if err != nil {
		return err
	}

	type userLeague struct{ userID, leagueID string }
	seen := make(map[userLeague]bool)

	var failures int
	for _, c := range completions {
		leagueID, err := r.hier.LeagueIDForSection(ctx, c.SectionID)
		if err != nil {
			// Section removed from the hierarchy since completion. Skip.
			r.log.Warn("orphan section completion",
				logger.UserID(c.UserID),
				logger.SectionID(c.SectionID),
				logger.Err(err),
			)
			continue
		}

		key := userLeague{c.UserID, leagueID}
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := r.flow.RunForLeague(ctx, c.UserID, leagueID); err != nil {
			failures++
			r.log.Error("award reconciliation failed",
				logger.UserID(c.UserID),
				logger.LeagueID(leagueID),
				logger.Err(err),
			)
		}
	}

	if r.leaderboard != nil {
		if err := r.leaderboard.Refresh(ctx, query.GetLeaderboardQuery{}); err != nil {
			r.log.Warn("leaderboard refresh failed", logger.Err(err))
		}
	}

	r.log.Info("reconciliation sweep done",
		logger.Int("completions", len(completions)),
		logger.Int("pairs", len(seen)),
		logger.Int("failures", failures),
	)
	return nil
}
