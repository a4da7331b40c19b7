package reveal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_StopsWhenStepReturnsFalse(t *testing.T) {
	var steps atomic.Int64
	done := make(chan struct{})
	Run(context.Background(), time.Millisecond, func() bool {
		if steps.Add(1) == 3 {
			close(done)
			return false
		}
		return true
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("step never reached its terminal count")
	}
	// Give a stray tick a chance to fire, then confirm none did.
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int64(3), steps.Load())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var steps atomic.Int64
	Run(ctx, time.Millisecond, func() bool {
		steps.Add(1)
		return true
	})

	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)
	after := steps.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, steps.Load(), "step fired after cancellation")
}

func TestLifecycle_TickThenSettle(t *testing.T) {
	lc := NewLifecycle()
	require.False(t, lc.Settled())

	require.NoError(t, lc.Tick())
	require.NoError(t, lc.Tick())
	require.False(t, lc.Settled())

	require.NoError(t, lc.Settle())
	require.True(t, lc.Settled())
}

func TestLifecycle_SettledIsTerminal(t *testing.T) {
	lc := NewLifecycle()
	require.NoError(t, lc.Settle())
	require.Error(t, lc.Tick(), "tick must be rejected after settling")
	require.Error(t, lc.Settle(), "settling twice must be rejected")
	require.True(t, lc.Settled())
}
