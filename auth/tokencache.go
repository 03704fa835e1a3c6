package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	cachedTokens struct {
		inner TokenStore
		cache *bigcache.BigCache
	}
)

// cacheWindow bounds how long a revoked-elsewhere token could still
// resolve from a stale process; single-process deployments see their own
// revocations immediately because Revoke drops the entry.
const cacheWindow = 10 * time.Minute

// CachedTokens wraps a TokenStore with an in-memory read-through cache,
// so the per-request token lookup skips the database on the hot path.
// Misses are never cached, a fresh login is visible on its first use.
func CachedTokens(inner TokenStore, ttl time.Duration) TokenStore {
	window := cacheWindow
	if ttl > 0 && ttl < window {
		window = ttl
	}
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(window))
	return &cachedTokens{inner: inner, cache: cache}
}

func (c *cachedTokens) Mint(ctx context.Context, user Identity) (string, error) {
	token, err := c.inner.Mint(ctx, user)
	if err != nil {
		return "", err
	}
	c.put(token, user)
	return token, nil
}

func (c *cachedTokens) Resolve(ctx context.Context, token string) (Identity, bool, error) {
	if buf, err := c.cache.Get(token); err == nil {
		var id Identity
		if json.Unmarshal(buf, &id) == nil {
			return id, true, nil
		}
	}
	id, found, err := c.inner.Resolve(ctx, token)
	if err != nil || !found {
		return Identity{}, false, err
	}
	c.put(token, id)
	return id, true, nil
}

func (c *cachedTokens) Revoke(ctx context.Context, token string) error {
	c.cache.Delete(token)
	return c.inner.Revoke(ctx, token)
}

func (c *cachedTokens) put(token string, id Identity) {
	buf, err := json.Marshal(id)
	if err != nil {
		return
	}
	c.cache.Set(token, buf)
}
