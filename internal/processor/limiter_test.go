package processor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterBoundsConcurrency(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int32
	}{
		{"sequential", 1, 1},
		{"two slots", 2, 2},
		{"zero clamps to one", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(tt.capacity)

			var running, peak int32
			var mu sync.Mutex
			for i := 0; i < 6; i++ {
				require.NoError(t, l.Go(context.Background(), func() {
					n := atomic.AddInt32(&running, 1)
					mu.Lock()
					if n > peak {
						peak = n
					}
					mu.Unlock()
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&running, -1)
				}))
			}
			l.Wait()

			require.Zero(t, atomic.LoadInt32(&running))
			require.LessOrEqual(t, peak, tt.want)
		})
	}
}

func TestLimiterStopsOnCanceledContext(t *testing.T) {
	l := newLimiter(1)
	release := make(chan struct{})
	require.NoError(t, l.Go(context.Background(), func() { <-release }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := l.Go(ctx, func() { ran = true })
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	l.Wait()
	require.False(t, ran)
}
