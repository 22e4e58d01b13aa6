// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Award events are the only ones this core emits;
// each one maps to exactly one audit record.
const (
	EventBadgeEarned             EventType = "achievement.badge_earned"
	EventSpecializationCompleted EventType = "achievement.specialization_completed"
)

// AuditAction is the action name recorded in the Audit Sink.
type AuditAction string

const (
	AuditBadgeEarned             AuditAction = "BADGE_EARNED"
	AuditSpecializationCompleted AuditAction = "SPECIALIZATION_COMPLETED"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event stamped with the current time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// BadgeEarnedEvent is emitted when a user earns a league badge.
type BadgeEarnedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	BadgeID  string `json:"badge_id"`
	LeagueID string `json:"league_id"`
}

// NewBadgeEarnedEvent creates a new BadgeEarnedEvent.
func NewBadgeEarnedEvent(userID, badgeID, leagueID string) BadgeEarnedEvent {
	return BadgeEarnedEvent{
		BaseEvent: NewBaseEvent(EventBadgeEarned, userID),
		UserID:    userID,
		BadgeID:   badgeID,
		LeagueID:  leagueID,
	}
}

// SpecializationCompletedEvent is emitted when a user completes a specialization.
type SpecializationCompletedEvent struct {
	BaseEvent
	UserID           string `json:"user_id"`
	SpecializationID string `json:"specialization_id"`
}

// NewSpecializationCompletedEvent creates a new SpecializationCompletedEvent.
func NewSpecializationCompletedEvent(userID, specializationID string) SpecializationCompletedEvent {
	return SpecializationCompletedEvent{
		BaseEvent:        NewBaseEvent(EventSpecializationCompleted, userID),
		UserID:           userID,
		SpecializationID: specializationID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event bus contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// ═══════════════════════════════════════════════════════════════════════════
// Audit Sink contract
// ═══════════════════════════════════════════════════════════════════════════

// AuditEvent is the record handed to the Audit Sink.
// ResourceID names the awarded thing (badge or specialization ID).
type AuditEvent struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Action     AuditAction `json:"action"`
	ResourceID string      `json:"resource_id"`
	Timestamp  time.Time   `json:"timestamp"`
}

// AuditSink receives audit events. Delivery is fire-and-forget from the
// award path's perspective: a sink failure never rolls back an award.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}
