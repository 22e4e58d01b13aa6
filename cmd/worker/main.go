// Command worker runs the background side of the progress core: the audit
// pipeline and the periodic award reconciliation sweep. Request-facing
// transports construct the command and query handlers against the same
// repositories in their own deployments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/league-progress/config"
	"github.com/alem-hub/league-progress/internal/application/eventhandler"
	"github.com/alem-hub/league-progress/internal/application/query"
	"github.com/alem-hub/league-progress/internal/application/saga"
	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
	"github.com/alem-hub/league-progress/internal/domain/rollup"
	"github.com/alem-hub/league-progress/internal/infrastructure/audit"
	"github.com/alem-hub/league-progress/internal/infrastructure/messaging"
	"github.com/alem-hub/league-progress/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/league-progress/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/league-progress/internal/infrastructure/scheduler"
	"github.com/alem-hub/league-progress/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logger.LevelInfo
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	log := logger.New(logger.Options{Level: level}).With(logger.String("app", cfg.App.Name))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Storage ──────────────────────────────────────────────────────────────

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return err
	}
	log.Info("migrations applied")

	pool := conn.Pool()
	store := postgres.NewProgressRepository(pool)
	hier := postgres.NewHierarchyRepository(pool)
	awards := postgres.NewAchievementRepository(pool)
	ranker := postgres.NewLeaderboardRepository(pool)

	// ── Leaderboard cache ────────────────────────────────────────────────────

	var cache leaderboard.Cache
	if cfg.Features.EnableLeaderboardCache && !cfg.Redis.Disabled {
		rc, err := redis.NewLeaderboardCache(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()
		cache = rc
		log.Info("leaderboard cache connected")
	} else {
		log.Warn("leaderboard cache disabled, serving from the ranker only")
	}

	leaderboardHandler := query.NewGetLeaderboardHandler(ranker, cache, log)

	// ── Audit pipeline ───────────────────────────────────────────────────────

	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	defer bus.Close()

	sink := audit.NewResilientSink(audit.NewLogSink(log), log)
	if err := eventhandler.NewAwardAuditHandler(sink, log).Register(bus); err != nil {
		return err
	}

	// ── Reconciliation ───────────────────────────────────────────────────────

	aggregator := rollup.New(hier, store)
	flow := saga.NewAwardFlow(hier, aggregator, awards, bus, log, saga.AwardFlowConfig{
		EnableSpecializationCascade: cfg.Features.EnableSpecializationCascade,
	})

	if cfg.Features.EnableReconciliation {
		reconciler := scheduler.NewReconciler(store, hier, flow, leaderboardHandler, cfg.Scheduler, log)
		if err := reconciler.Start(); err != nil {
			return err
		}
		defer reconciler.Stop()
	} else {
		log.Warn("reconciliation disabled by feature flag")
	}

	log.Info("worker running", logger.String("env", string(cfg.App.Environment)))
	<-ctx.Done()
	log.Info("shutting down")

	return nil
}
