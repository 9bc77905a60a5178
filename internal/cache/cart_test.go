package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c := New(testConfig(), nil)
		defer c.Close()

		cart := `[{"productId":"42","quantity":2}]`
		require.True(t, c.SetCartInCache(ctx, "42", cart))

		got, found := c.GetCartFromCache(ctx, "42")
		assert.True(t, found)
		assert.Equal(t, cart, got)
	})

	t.Run("uses the cart key naming convention", func(t *testing.T) {
		c := New(testConfig(), nil)
		defer c.Close()

		c.SetCartInCache(ctx, "42", "payload")

		assert.Equal(t, "payload", c.Get(ctx, "cart:42"))
	})

	t.Run("miss for unknown user", func(t *testing.T) {
		c := New(testConfig(), nil)
		defer c.Close()

		got, found := c.GetCartFromCache(ctx, "nobody")
		assert.False(t, found)
		assert.Empty(t, got)
	})

	t.Run("expires after cart ttl", func(t *testing.T) {
		clock := newFakeClock()
		c := New(testConfig(), nil, WithClock(clock.Now))
		defer c.Close()

		c.SetCartInCache(ctx, "42", "payload")
		clock.Advance(CartTTL + time.Second)

		_, found := c.GetCartFromCache(ctx, "42")
		assert.False(t, found)
	})

	t.Run("invalidate removes the cart", func(t *testing.T) {
		c := New(testConfig(), nil)
		defer c.Close()

		c.SetCartInCache(ctx, "42", "payload")

		assert.True(t, c.InvalidateCartCache(ctx, "42"))
		assert.False(t, c.InvalidateCartCache(ctx, "42"))

		_, found := c.GetCartFromCache(ctx, "42")
		assert.False(t, found)
	})
}
