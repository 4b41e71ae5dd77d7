package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/calebmills/redlead/internal/model"
)

// Limiter enforces a minimum delay between consecutive requests to the same
// host. Reddit throttles aggressive clients, so every listing fetch shares
// one limiter keyed by host.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// requests to the same host.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to host.
// Returns an error if the context is cancelled while waiting.
func (r *Limiter) Wait(ctx context.Context, host string) error {
	r.mu.Lock()
	last, ok := r.lastCall[host]
	now := time.Now()

	if !ok {
		// First request for this host.
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", host, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[host] = time.Now()
	r.mu.Unlock()

	return nil
}

// RateLimitedSource is a decorator that enforces the minimum inter-request
// delay before delegating to the wrapped ForumSource.
type RateLimitedSource struct {
	inner   model.ForumSource
	limiter *Limiter
	host    string
}

// NewRateLimitedSource wraps a ForumSource with rate limiting. All sources
// hitting the same API host should share the same limiter instance.
func NewRateLimitedSource(inner model.ForumSource, limiter *Limiter, host string) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

var _ model.ForumSource = (*RateLimitedSource)(nil)

// FetchRecent waits out the rate limit, then delegates.
func (s *RateLimitedSource) FetchRecent(ctx context.Context, subreddit string, limit int) ([]model.Submission, error) {
	if err := s.limiter.Wait(ctx, s.host); err != nil {
		return nil, err
	}
	return s.inner.FetchRecent(ctx, subreddit, limit)
}
