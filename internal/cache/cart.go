package cache

import (
	"context"
	"time"
)

// Cart entries use a fixed key prefix and a short TTL. The "cart:{userID}"
// naming is relied on by the cart feature and must not change.
const (
	cartKeyPrefix = "cart:"

	// CartTTL is the default expiry for cached carts.
	CartTTL = 10 * time.Minute
)

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// GetCartFromCache returns the serialized cart for the user, if cached.
func (c *Cache) GetCartFromCache(ctx context.Context, userID string) (string, bool) {
	value := c.Get(ctx, cartKey(userID))
	if value == nil {
		return "", false
	}
	cart, ok := value.(string)
	if !ok {
		return "", false
	}
	return cart, true
}

// SetCartInCache stores the serialized cart for the user with CartTTL.
func (c *Cache) SetCartInCache(ctx context.Context, userID, cart string) bool {
	return c.Set(ctx, cartKey(userID), cart, CartTTL)
}

// InvalidateCartCache removes the user's cached cart and reports whether an
// entry was removed.
func (c *Cache) InvalidateCartCache(ctx context.Context, userID string) bool {
	return c.Del(ctx, cartKey(userID))
}
