package ratelimit

import (
	"context"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request was counted against the window.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Limiter defines the interface for rate limiting implementations.
type Limiter interface {
	// Allow counts a single request for the given key if the key still has
	// room in its current window.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current rate limit status for the given key
	// without counting a request.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset drops the current window for the given key.
	Reset(ctx context.Context, key string) error
}

// Window is a snapshot of a fixed window counter.
type Window struct {
	// Count is the number of requests counted in the window.
	Count int64

	// ResetAt is when the window expires. Zero if the key has no live window.
	ResetAt time.Time

	// Allowed reports whether the last Increment call was counted.
	Allowed bool
}

// Store defines the interface for rate limit storage backends.
type Store interface {
	// Increment atomically counts one request for key unless the live window
	// already holds limit requests. A missing or expired window is recreated
	// with a count of one. A rejected call never changes the count.
	Increment(ctx context.Context, key string, limit int, window time.Duration) (Window, error)

	// Get returns the live window for key without counting a request.
	Get(ctx context.Context, key string) (Window, error)

	// Delete removes the given key from the store.
	Delete(ctx context.Context, key string) error
}
