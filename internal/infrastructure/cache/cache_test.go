package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheWithClient(client, nil, ttl), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	type snapshot struct {
		TotalOrders int     `json:"total_orders"`
		ReturnRate  float64 `json:"return_rate"`
	}

	require.NoError(t, c.SetJSON(ctx, "dashboard", snapshot{TotalOrders: 42, ReturnRate: 0.12}))

	var got snapshot
	require.NoError(t, c.GetJSON(ctx, "dashboard", &got))
	assert.Equal(t, 42, got.TotalOrders)
	assert.Equal(t, 0.12, got.ReturnRate)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	var got map[string]interface{}
	err := c.GetJSON(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "ephemeral", map[string]int{"n": 1}))
	mr.FastForward(2 * time.Second)

	var got map[string]int
	err := c.GetJSON(ctx, "ephemeral", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(client, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(ctx, "client-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := rl.Allow(ctx, "client-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Independent key is unaffected
	allowed, err = rl.Allow(ctx, "client-2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
