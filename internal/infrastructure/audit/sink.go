// Package audit implements the audit sink that receives award records.
package audit

import (
	"context"

	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/circuitbreaker"
	"github.com/alem-hub/league-progress/pkg/logger"
	"github.com/alem-hub/league-progress/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG SINK
// ══════════════════════════════════════════════════════════════════════════════

// LogSink writes audit records to the structured log. It is the default sink
// for single-instance deployments; an external sink can replace it behind
// the same interface.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.With(logger.Component("audit"))}
}

// Record implements shared.AuditSink.
func (s *LogSink) Record(_ context.Context, event shared.AuditEvent) error {
	s.log.Info("audit",
		logger.String("audit_id", event.ID),
		logger.UserID(event.UserID),
		logger.String("action", string(event.Action)),
		logger.String("resource_id", event.ResourceID),
		logger.Time("occurred_at", event.Timestamp),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESILIENT SINK
// Wraps another sink with retries and a circuit breaker. The award path
// never waits on this: a record that still fails after retries is dropped
// with a log line, and an open breaker sheds records immediately while the
// downstream recovers.
// ══════════════════════════════════════════════════════════════════════════════

// ResilientSink decorates a sink with retry and circuit breaking.
type ResilientSink struct {
	inner   shared.AuditSink
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewResilientSink wraps inner.
func NewResilientSink(inner shared.AuditSink, log *logger.Logger) *ResilientSink {
	return &ResilientSink{
		inner:   inner,
		retrier: retry.AuditRetrier(),
		breaker: circuitbreaker.New("audit-sink"),
		log:     log.With(logger.Component("audit")),
	}
}

// Record implements shared.AuditSink.
func (s *ResilientSink) Record(ctx context.Context, event shared.AuditEvent) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.retrier.Do(ctx, func(ctx context.Context) error {
			return s.inner.Record(ctx, event)
		})
	})
	if err != nil {
		s.log.Warn("audit record dropped after retries",
			logger.String("audit_id", event.ID),
			logger.String("action", string(event.Action)),
			logger.Err(err),
		)
	}
	return err
}
