package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/league-progress/internal/domain/shared"
)

// AuditSink implements shared.AuditSink by capturing records. FailWith makes
// every Record call fail, for exercising the drop-and-continue path.
type AuditSink struct {
	mu     sync.Mutex
	events []shared.AuditEvent
	err    error
}

// NewAuditSink creates an empty sink.
func NewAuditSink() *AuditSink {
	return &AuditSink{}
}

// FailWith forces subsequent Record calls to return err. Pass nil to heal.
func (s *AuditSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Record implements shared.AuditSink.
func (s *AuditSink) Record(_ context.Context, event shared.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of the captured records.
func (s *AuditSink) Events() []shared.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.AuditEvent(nil), s.events...)
}
