package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactrelay/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get returns stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[bool]()
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "form-1", true, 0))

		v, err := c.Get(ctx, "form-1")
		require.NoError(t, err)
		require.True(t, v)
	})

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		t.Cleanup(func() { _ = c.Close() })

		_, err := c.Get(ctx, "nope")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entry is not returned", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithSweepInterval(0))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
		time.Sleep(30 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", "v", -1))
		time.Sleep(5 * time.Millisecond)

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", v)
	})

	t.Run("delete removes key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[bool]()
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", true, 0))
		require.NoError(t, c.Delete(ctx, "k"))
		require.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is not an error")

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("max entries evicts oldest write", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithMaxEntries(2))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Set(ctx, "b", 2, 0))
		require.NoError(t, c.Set(ctx, "c", 3, 0))

		require.Equal(t, 2, c.Len())
		_, err := c.Get(ctx, "a")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("sweeper drops expired entries", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithSweepInterval(5 * time.Millisecond))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "a", 1, time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("writes fail after close", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close(), "close is idempotent")

		require.ErrorIs(t, c.Set(ctx, "a", 1, 0), cache.ErrClosed)
		require.ErrorIs(t, c.Delete(ctx, "a"), cache.ErrClosed)
	})
}
