package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/platform/redis/redistest"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	now = now.Add(24 * time.Hour)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, err = c.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrMiss)
}

type counts struct {
	Users int `json:"users"`
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(nil)
	calls := 0
	load := func() (counts, error) {
		calls++
		return counts{Users: 42}, nil
	}

	v, cached, err := GetOrSet(ctx, c, "stats", time.Minute, load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 42, v.Users)

	v, cached, err = GetOrSet(ctx, c, "stats", time.Minute, load)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 42, v.Users)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetWithoutTTL(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(nil)
	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	_, _, _ = GetOrSet(ctx, c, "k", 0, load)
	v, cached, err := GetOrSet(ctx, c, "k", 0, load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, v)

	v, cached, err = GetOrSet[int](ctx, nil, "k", time.Minute, load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, v)
}

func TestGetOrSetError(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(nil)
	boom := errors.New("backend down")

	_, _, err := GetOrSet(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisBacked(t *testing.T) {
	ctx := context.Background()
	srv, client := redistest.New(t)
	c := NewCacheService(client)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"users":7}`), time.Minute))
	assert.Equal(t, time.Minute, srv.TTL("k"))

	v, cached, err := GetOrSet(ctx, c, "k", time.Minute, func() (counts, error) {
		return counts{}, errors.New("should not load")
	})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 7, v.Users)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "short", []byte(`{"users":1}`), time.Minute))
	srv.FastForward(time.Minute)
	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)
}
