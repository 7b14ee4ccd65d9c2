// Package ratelimit provides per-client request rate limiting for the HTTP
// API, backed by token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// clientBucket pairs a token bucket with its last access time so idle
// clients can be evicted.
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages rate limiting for multiple clients. Buckets are keyed by
// client, path, and method, so an expensive endpoint's budget is independent
// of cheap ones.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	config  *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	limiter := &Limiter{
		buckets: make(map[string]*clientBucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanupLoop()
	}

	return limiter
}

// Allow checks if a request from the given client is allowed for the
// specified endpoint.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpoint := MatchEndpoint(path, method, l.config.Endpoints)
	if endpoint == nil {
		endpoint = &EndpointConfig{RPS: l.config.DefaultRPS, Burst: l.config.DefaultBurst}
	}
	// Unlimited endpoint (e.g., health check).
	if endpoint.RPS <= 0 {
		return true, Info{Allowed: true}
	}

	bucket := l.bucket(clientID+":"+path+":"+method, endpoint)
	allowed := bucket.limiter.Allow()

	info := Info{
		Allowed:   allowed,
		Limit:     endpoint.Burst,
		Remaining: int(bucket.limiter.Tokens()),
	}
	if !allowed {
		// Time until one token refills.
		info.RetryAfter = time.Duration(float64(time.Second) / endpoint.RPS)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, endpoint *EndpointConfig) *clientBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, exists := l.buckets[key]
	if !exists {
		burst := endpoint.Burst
		if burst <= 0 {
			burst = 1
		}
		bucket = &clientBucket{limiter: rate.NewLimiter(rate.Limit(endpoint.RPS), burst)}
		l.buckets[key] = bucket
	}
	bucket.lastSeen = time.Now()
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.evictIdle()
		case <-l.cleanupStop:
			return
		}
	}
}

// evictIdle removes buckets that haven't been used in over an hour.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
