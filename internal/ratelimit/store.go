// AngelaMos | 2026
// store.go

// Package ratelimit provides the pluggable request-budget stores behind the
// rate-limiting middleware: a fixed-window in-memory store for
// single-instance deployments and tests, and a redis-backed store for
// anything sharing budgets across instances.
package ratelimit

import (
	"context"
	"time"
)

// Limit is one request budget: Rate requests per Period. Burst is only
// meaningful to stores with burst semantics; the fixed-window memory store
// ignores it.
type Limit struct {
	Rate   int
	Burst  int
	Period time.Duration
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	ResetAfter time.Duration
}

// Store decides whether one more request under key fits within limit.
// Implementations must be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

func PerMinute(rate, burst int) Limit {
	return Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func PerWindow(requests, burst int, window time.Duration) Limit {
	return Limit{
		Rate:   requests,
		Burst:  burst,
		Period: window,
	}
}
