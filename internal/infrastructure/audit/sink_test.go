package audit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/league-progress/internal/domain/shared"
	"github.com/alem-hub/league-progress/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

// flakySink fails the first failures calls, then succeeds.
type flakySink struct {
	mu       sync.Mutex
	failures int
	calls    int
	recorded []shared.AuditEvent
}

func (s *flakySink) Record(_ context.Context, event shared.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("sink unavailable")
	}
	s.recorded = append(s.recorded, event)
	return nil
}

func auditEvent() shared.AuditEvent {
	return shared.AuditEvent{
		ID:         "audit-1",
		UserID:     "user-1",
		Action:     shared.AuditBadgeEarned,
		ResourceID: "badge-1",
		Timestamp:  time.Now().UTC(),
	}
}

func TestResilientSinkRetriesTransientFailures(t *testing.T) {
	inner := &flakySink{failures: 2}
	sink := NewResilientSink(inner, testLogger())

	err := sink.Record(context.Background(), auditEvent())
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
	require.Len(t, inner.recorded, 1)
	assert.Equal(t, "audit-1", inner.recorded[0].ID)
}

func TestResilientSinkGivesUpAfterRetries(t *testing.T) {
	inner := &flakySink{failures: 10}
	sink := NewResilientSink(inner, testLogger())

	err := sink.Record(context.Background(), auditEvent())
	assert.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestLogSinkAlwaysSucceeds(t *testing.T) {
	sink := NewLogSink(testLogger())
	assert.NoError(t, sink.Record(context.Background(), auditEvent()))
}
