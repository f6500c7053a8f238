package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket_Take(t *testing.T) {
	now := time.Now()
	b := newBucket(10, 1.0, now)

	for i := 0; i < 10; i++ {
		ok, remaining, _, _ := b.take(now)
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}
	ok, remaining, next, full := b.take(now)
	assert.False(t, ok)
	assert.Zero(t, remaining)
	assert.Equal(t, now.Add(time.Second), next)
	assert.Equal(t, now.Add(10*time.Second), full)
}

func TestBucket_Refill(t *testing.T) {
	now := time.Now()
	b := newBucket(2, 20.0, now)
	b.take(now)
	b.take(now)
	ok, _, _, _ := b.take(now)
	require.False(t, ok)

	ok, _, _, _ = b.take(now.Add(100 * time.Millisecond))
	assert.True(t, ok)

	// Refill never exceeds capacity.
	_, remaining, next, full := b.take(now.Add(time.Hour))
	assert.Equal(t, 1, remaining)
	assert.Equal(t, now.Add(time.Hour), next)
	assert.True(t, full.After(now.Add(time.Hour)))
}

func TestLimiter_SweepDropsIdleBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	require.False(t, allowed)

	limiter.sweep(time.Now())
	allowed, _ = limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	assert.False(t, allowed, "recent buckets survive a sweep")

	limiter.sweep(time.Now().Add(2 * idleTTL))
	limiter.mu.Lock()
	assert.Empty(t, limiter.buckets)
	assert.Empty(t, limiter.lastUsed)
	limiter.mu.Unlock()

	allowed, _ = limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	assert.True(t, allowed, "a swept client starts with a full bucket")
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/api/jobs", "GET")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/api/jobs", "GET")
	assert.False(t, allowed)

	disabled := NewLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	for i := 0; i < 20; i++ {
		allowed, _ := disabled.Allow("10.0.0.3", "/api/contact", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_EndpointTier(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/applications", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/applications", "POST")
		require.True(t, allowed)
		assert.Equal(t, 5, info.Limit)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/api/applications", "POST")
	assert.False(t, allowed, "burst exhausted")

	allowed, info := limiter.Allow("127.0.0.1", "/api/applications", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("127.0.0.2", "/api/applications", "POST")
	assert.True(t, allowed, "buckets are per client")
}

func TestLimiter_PrefixTierSharesBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/jobs/", Method: "DELETE", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("127.0.0.1", "/api/jobs/a", "DELETE")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("127.0.0.1", "/api/jobs/b", "DELETE")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("127.0.0.1", "/api/jobs/c", "DELETE")
	assert.False(t, allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/api/blog", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/api/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantPath  string
		wantLimit int
		wantNil   bool
	}{
		{name: "health unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "metrics unlimited", path: "/metrics", method: "GET", wantLimit: 0},
		{name: "exact application submit", path: "/api/applications", method: "POST", wantPath: "/api/applications", wantLimit: 20},
		{name: "login", path: "/api/admin/login", method: "POST", wantPath: "/api/admin/login", wantLimit: 10},
		{name: "prefix job edit", path: "/api/jobs/123", method: "PUT", wantPath: "/api/jobs/", wantLimit: 100},
		{name: "pdf download", path: "/api/resumes/123/pdf", method: "GET", wantPath: "/api/resumes/", wantLimit: 60},
		{name: "public listing uses default", path: "/api/jobs", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestMatchEndpoint_LongestPrefixWins(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/", Method: "POST", Limit: 1},
		{Path: "/api/blog/", Method: "POST", Limit: 2},
	}
	got := MatchEndpoint("/api/blog/hello/summarize", "POST", configs)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Limit)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
