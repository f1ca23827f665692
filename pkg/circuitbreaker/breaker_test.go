package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func failing() error { return errDownstream }
func succeeding() error { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 3, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cb.Execute(ctx, failing)
		require.ErrorIs(t, err, errDownstream)
	}

	require.Equal(t, StateOpen, cb.State())

	err := cb.Execute(ctx, succeeding)
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 3, Timeout: time.Minute})
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.NoError(t, cb.Execute(ctx, succeeding))
	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))

	require.Equal(t, StateClosed, cb.State())
}

func TestBreaker_ClosesAfterHalfOpenSuccesses(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 2, SuccessThreshold: 2, Timeout: 10 * time.Millisecond})
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ctx, succeeding))
	require.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ctx, succeeding))
	require.Equal(t, StateClosed, cb.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test", Config{FailureThreshold: 2, SuccessThreshold: 2, Timeout: 10 * time.Millisecond})
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.ErrorIs(t, cb.Execute(ctx, failing), errDownstream)
	require.Equal(t, StateOpen, cb.State())
	require.ErrorIs(t, cb.Execute(ctx, succeeding), ErrCircuitOpen)
}
