package spotify

import (
	"sync"
	"time"
)

// tokenSafetyMargin is subtracted from the provider TTL so a cached token is
// never handed out in its final minute.
const tokenSafetyMargin = 60 * time.Second

// TokenCache holds the client-credentials access token. The zero value is an
// empty cache.
type TokenCache struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Get returns the cached token and its expiry.
func (c *TokenCache) Get() (string, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.expiresAt
}

// Set replaces the cached token.
func (c *TokenCache) Set(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = expiresAt
}

// IsValid reports whether a non-empty token is cached and now is before its expiry.
func (c *TokenCache) IsValid(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != "" && now.Before(c.expiresAt)
}

// Lookup returns the token when valid at now.
func (c *TokenCache) Lookup(now time.Time) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || !now.Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// cacheExpiry computes when a token fetched at fetchStart with the given TTL
// stops being reused.
func cacheExpiry(fetchStart time.Time, ttl time.Duration) time.Time {
	return fetchStart.Add(max(ttl-tokenSafetyMargin, 0))
}
