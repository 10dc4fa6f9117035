package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *LocalCache {
	c, err := NewCache(Config{GCInterval: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetSet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "race:elf", `{"id":1}`, 0))

	v, err := c.Get(ctx, "race:elf")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, v)
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ttl_key", "val", 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	_, err := c.Get(ctx, "ttl_key")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := c.Exists(ctx, "ttl_key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	_ = c.Set(ctx, "a", "1", 0)
	_ = c.Set(ctx, "b", "2", 0)
	require.NoError(t, c.Del(ctx, "a", "b"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_ = c.Set(ctx, "k", "v", time.Minute)
	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSweepRemovesExpired(t *testing.T) {
	c, err := NewCache(Config{GCInterval: 5 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	_ = c.Set(context.Background(), "gone", "v", time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, present := c.kv.Load("gone")
	assert.False(t, present)
}

func TestCloseTwice(t *testing.T) {
	c, err := NewCache(Config{})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestSetNX(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "gen", "a", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "gen", "b", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := c.Get(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestSetNX_ReplacesExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "gen", "old", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	ok, err := c.SetNX(ctx, "gen", "new", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := c.Get(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}
