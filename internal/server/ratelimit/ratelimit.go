// Package ratelimit throttles API clients with token buckets, one per client
// and endpoint tier.
package ratelimit

import (
	"sync"
	"time"
)

// idleTTL is how long an unused bucket is kept.
const idleTTL = time.Hour

// bucket refills continuously at rate tokens per second up to capacity.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	updated  time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: float64(capacity), rate: rate, tokens: float64(capacity), updated: now}
}

// take refills the bucket up to now and consumes one token when available.
// It returns the whole tokens left, when one more token will be available
// and when the bucket will be full again.
func (b *bucket) take(now time.Time) (ok bool, remaining int, next, full time.Time) {
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
		b.updated = now
	}
	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	next = now
	if b.tokens < 1 {
		next = now.Add(b.wait(1 - b.tokens))
	}
	return ok, int(b.tokens), next, now.Add(b.wait(b.capacity - b.tokens))
}

func (b *bucket) wait(tokens float64) time.Duration {
	if tokens <= 0 {
		return 0
	}
	return time.Duration(tokens / b.rate * float64(time.Second))
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter keeps one bucket per client, method and endpoint tier.
type Limiter struct {
	config *Config

	mu       sync.Mutex
	buckets  map[string]*bucket
	lastUsed map[string]time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests a minute
// per client and endpoint.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:   config,
		buckets:  make(map[string]*bucket),
		lastUsed: make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepEvery(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from clientID to endpoint may proceed.
// Buckets are shared per client across every path of a prefix tier, so
// /api/jobs/1 and /api/jobs/2 draw from the same bucket.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	tier := EndpointConfig{Path: endpoint, Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	if matched := MatchEndpoint(endpoint, method, l.config.EndpointConfigs); matched != nil {
		tier = *matched
		if tier.Path == "" {
			tier.Path = endpoint
		}
	}
	if tier.Limit <= 0 || tier.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := time.Now()
	key := clientID + ":" + method + ":" + tier.Path

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		burst := tier.Burst
		if burst <= 0 {
			burst = tier.Limit
		}
		b = newBucket(burst, float64(tier.Limit)/tier.Window.Seconds(), now)
		l.buckets[key] = b
	}
	l.lastUsed[key] = now
	allowed, remaining, next, full := b.take(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetTime: full,
	}
	if !allowed {
		info.RetryAfter = max(next.Sub(now), time.Second)
	}
	return allowed, info
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			l.sweep(now)
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets unused for idleTTL.
func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, used := range l.lastUsed {
		if now.Sub(used) > idleTTL {
			delete(l.buckets, key)
			delete(l.lastUsed, key)
		}
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
