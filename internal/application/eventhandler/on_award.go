// Package eventhandler contains subscribers that react to domain events
// published on the in-process event bus.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD AUDIT HANDLER
// Turns award events into audit records. One event, one record. The sink is
// best-effort from here: a failed Record is logged and dropped, the award
// that produced the event is already durable.
// ══════════════════════════════════════════════════════════════════════════════

// AwardAuditHandler forwards award events to the audit sink.
type AwardAuditHandler struct {
	sink shared.AuditSink
	log  *logger.Logger
}

// NewAwardAuditHandler creates the handler.
func NewAwardAuditHandler(sink shared.AuditSink, log *logger.Logger) *AwardAuditHandler {
	return &AwardAuditHandler{sink: sink, log: log}
}

// Register subscribes the handler to both award event types.
func (h *AwardAuditHandler) Register(bus shared.EventSubscriber) error {
	if err := bus.Subscribe(shared.EventBadgeEarned, h.handle); err != nil {
		return fmt.Errorf("award audit: subscribe badge events: %w", err)
	}
	if err := bus.Subscribe(shared.EventSpecializationCompleted, h.handle); err != nil {
		return fmt.Errorf("award audit: subscribe specialization events: %w", err)
	}
	return nil
}

func (h *AwardAuditHandler) handle(event shared.Event) error {
	record, ok := h.auditRecord(event)
	if !ok {
		h.log.Warn("unexpected event type on award audit handler",
			logger.String("event", string(event.EventType())),
		)
		return nil
	}

	if err := h.sink.Record(context.Background(), record); err != nil {
		h.log.Warn("audit record dropped",
			logger.String("action", string(record.Action)),
			logger.UserID(record.UserID),
			logger.Err(err),
		)
	}

	return nil
}

func (h *AwardAuditHandler) auditRecord(event shared.Event) (shared.AuditEvent, bool) {
	switch e := event.(type) {
	case shared.BadgeEarnedEvent:
		return shared.AuditEvent{
			ID:         uuid.NewString(),
			UserID:     e.UserID,
			Action:     shared.AuditBadgeEarned,
			ResourceID: e.BadgeID,
			Timestamp:  e.OccurredAt(),
		}, true
	case shared.SpecializationCompletedEvent:
		return shared.AuditEvent{
			ID:         uuid.NewString(),
			UserID:     e.UserID,
			Action:     shared.AuditSpecializationCompleted,
			ResourceID: e.SpecializationID,
			Timestamp:  e.OccurredAt(),
		}, true
	default:
		return shared.AuditEvent{}, false
	}
}
