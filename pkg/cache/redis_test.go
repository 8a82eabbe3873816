package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	c := NewRedisCacheFromClient(client, opts...)
	c.delay = time.Millisecond
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	_, hit, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte("table"), time.Hour))
	assert.True(t, mr.Exists("steamvent:k"))

	data, hit, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("table"), data)

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, err = c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, WithDefaultTTL(time.Minute))

	require.NoError(t, c.Set(ctx, "explicit", []byte("x"), time.Second))
	require.NoError(t, c.Set(ctx, "default", []byte("y"), 0))

	assert.Equal(t, time.Second, mr.TTL("steamvent:explicit"))
	assert.Equal(t, time.Minute, mr.TTL("steamvent:default"))

	mr.FastForward(2 * time.Second)
	_, hit, err := c.Get(ctx, "explicit")
	assert.NoError(t, err)
	assert.False(t, hit, "entry should expire after its ttl")

	_, hit, _ = c.Get(ctx, "default")
	assert.True(t, hit)
}

func TestRedisCache_Prefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, WithPrefix("test:"))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("test:k"))
	assert.False(t, mr.Exists("steamvent:k"))
}

func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, mr.Exists("other:key"), "keys outside the prefix must survive")
	assert.False(t, mr.Exists("steamvent:a"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackend), "got %v", err)

	err = c.Set(ctx, "k", []byte("v"), 0)
	assert.True(t, errors.Is(err, ErrBackend), "got %v", err)
}

func TestNewRedisCache_PingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), addr)
	assert.ErrorIs(t, err, ErrBackend)
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), mr.Addr(), WithPrefix("x:"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.True(t, mr.Exists("x:k"))
}
