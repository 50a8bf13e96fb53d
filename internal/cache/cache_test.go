package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopNeverHits(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard:stats", map[string]int{"count": 1}, time.Minute))

	var dst map[string]int
	hit, err := c.Get(ctx, "dashboard:stats", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dst)
	assert.NoError(t, c.Delete(ctx, "dashboard:stats"))
}

func TestRedisKeyPrefix(t *testing.T) {
	c := &redisCache{prefix: "pos"}
	assert.Equal(t, "pos:dashboard:stats", c.key("dashboard:stats"))

	c.prefix = ""
	assert.Equal(t, "dashboard:stats", c.key("dashboard:stats"))
}

func TestNoopIncr(t *testing.T) {
	n, err := NewNoop().Incr(context.Background(), "dashboard:version")
	require.NoError(t, err)
	assert.Zero(t, n)
}
