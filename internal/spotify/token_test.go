package spotify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenCache_ZeroValueIsInvalid(t *testing.T) {
	var c TokenCache
	assert.False(t, c.IsValid(time.Now()))

	token, expiresAt := c.Get()
	assert.Empty(t, token)
	assert.True(t, expiresAt.IsZero())
}

func TestTokenCache_ValidStrictlyBeforeExpiry(t *testing.T) {
	var c TokenCache
	expires := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	c.Set("tok", expires)

	assert.True(t, c.IsValid(expires.Add(-time.Nanosecond)))
	assert.False(t, c.IsValid(expires))
	assert.False(t, c.IsValid(expires.Add(time.Second)))

	token, ok := c.Lookup(expires.Add(-time.Minute))
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestTokenCache_EmptyTokenNeverValid(t *testing.T) {
	var c TokenCache
	c.Set("", time.Now().Add(time.Hour))
	assert.False(t, c.IsValid(time.Now()))
}

func TestCacheExpiry(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Time
	}{
		{"hour token loses a minute", time.Hour, start.Add(59 * time.Minute)},
		{"short token clamps to start", 30 * time.Second, start},
		{"zero ttl", 0, start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cacheExpiry(start, tt.ttl))
		})
	}
}

func TestTokenCache_ConcurrentAccess(t *testing.T) {
	var c TokenCache
	var wg sync.WaitGroup
	now := time.Now()

	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("tok", now.Add(time.Duration(i)*time.Second))
		}()
		go func() {
			defer wg.Done()
			_ = c.IsValid(now)
		}()
	}
	wg.Wait()

	token, _ := c.Get()
	assert.Equal(t, "tok", token)
}
