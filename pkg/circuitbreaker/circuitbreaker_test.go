package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("downstream failure")

func fail(context.Context) error { return errDown }
func ok(context.Context) error   { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Requests are shed while open.
	assert.ErrorIs(t, cb.Execute(ctx, ok), ErrCircuitOpen)
}

func TestSuccessResetsFailureStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	require.NoError(t, cb.Execute(ctx, ok))
	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)

	assert.Equal(t, StateClosed, cb.State())
}

func TestRecoversThroughHalfOpen(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	// First probe moves the breaker to half-open.
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	time.Sleep(15 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	assert.Equal(t, StateOpen, cb.State())
}

func TestOnStateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("audit-sink",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		}),
	)

	require.ErrorIs(t, cb.Execute(context.Background(), fail), errDown)
	assert.Equal(t, []string{"audit-sink:closed->open"}, transitions)
}

func TestCounts(t *testing.T) {
	cb := New("test", WithFailureThreshold(10))
	ctx := context.Background()

	require.NoError(t, cb.Execute(ctx, ok))
	require.ErrorIs(t, cb.Execute(ctx, fail), errDown)

	counts := cb.Counts()
	assert.Equal(t, 2, counts.Requests)
	assert.Equal(t, 1, counts.TotalSuccesses)
	assert.Equal(t, 1, counts.TotalFailures)
	assert.Equal(t, 1, counts.ConsecutiveFailures)
}
