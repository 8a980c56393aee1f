package chain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const methodBalance = "getTokenAccountBalance"

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rps       float64
		burst     int
		wantLimit rate.Limit
		wantBurst int
	}{
		{name: "configured", rps: 5, burst: 10, wantLimit: 5, wantBurst: 10},
		{name: "zero rate disables throttling", rps: 0, burst: 3, wantLimit: rate.Inf, wantBurst: 3},
		{name: "negative rate disables throttling", rps: -1, burst: 3, wantLimit: rate.Inf, wantBurst: 3},
		{name: "burst floor is one", rps: 2, burst: 0, wantLimit: 2, wantBurst: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rl := NewRateLimiter(tc.rps, tc.burst)
			assert.Equal(t, tc.wantLimit, rl.rateLimit)
			assert.Equal(t, tc.wantBurst, rl.burstLimit)
		})
	}

	def := DefaultRateLimiter()
	assert.Equal(t, rate.Limit(5), def.rateLimit)
	assert.Equal(t, 10, def.burstLimit)
}

func TestRateLimiter_BurstPerMethod(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(1, 2)

	assert.True(t, rl.Allow(methodBalance))
	assert.True(t, rl.Allow(methodBalance))
	assert.False(t, rl.Allow(methodBalance), "burst exhausted")

	// Other methods have their own bucket
	assert.True(t, rl.Allow("getAccountInfo"))
}

func TestRateLimiter_Unthrottled(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(0, 1)

	for range 100 {
		require.True(t, rl.Allow(methodBalance))
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(100, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, rl.Wait(ctx, methodBalance))

	start := time.Now()
	require.NoError(t, rl.Wait(ctx, methodBalance))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond, "second call waits for a token")
}

func TestRateLimiter_WaitCanceled(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(1, 1)
	require.NoError(t, rl.Wait(context.Background(), methodBalance))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, rl.Wait(ctx, methodBalance))
}

func TestRateLimiter_OneLimiterPerMethod(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(10, 10)

	const goroutines = 64
	got := make([]*rate.Limiter, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = rl.getLimiter(methodBalance)
		}()
	}
	wg.Wait()

	for _, l := range got {
		assert.Same(t, got[0], l)
	}
	assert.NotSame(t, got[0], rl.getLimiter("getAccountInfo"))

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Len(t, rl.limiters, 2)
}
