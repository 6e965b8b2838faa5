// AngelaMos | 2026
// memory.go

package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a fixed-window counter per key. The first request in a
// window sets {count: 1, resetAt: now + period}; requests beyond the rate
// within the window are rejected until the window boundary passes. Expired
// entries are dropped on access and swept periodically so the map cannot
// grow without bound.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*windowEntry
	now       func() time.Time
	lastSweep time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock substitutes the time source, for deterministic tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.lastSweep = s.now()
	return s
}

func (s *MemoryStore) Allow(
	_ context.Context,
	key string,
	limit Limit,
) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	entry, ok := s.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		s.entries[key] = &windowEntry{
			count:   1,
			resetAt: now.Add(limit.Period),
		}
		return &Result{
			Allowed:    true,
			Remaining:  limit.Rate - 1,
			ResetAfter: limit.Period,
		}, nil
	}

	if entry.count < limit.Rate {
		entry.count++
		return &Result{
			Allowed:    true,
			Remaining:  limit.Rate - entry.count,
			ResetAfter: entry.resetAt.Sub(now),
		}, nil
	}

	return &Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: entry.resetAt.Sub(now),
		ResetAfter: entry.resetAt.Sub(now),
	}, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}

	for key, entry := range s.entries {
		if !now.Before(entry.resetAt) {
			delete(s.entries, key)
		}
	}

	s.lastSweep = now
}

// Len reports the number of tracked keys. Exposed for tests and the
// readiness endpoint.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
