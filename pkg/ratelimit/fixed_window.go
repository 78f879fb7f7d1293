package ratelimit

import (
	"context"
	"time"
)

// FixedWindow counts requests per key in fixed windows that start with the
// first request for a key. The window resets lazily: the first request seen
// after expiry opens a new one.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewFixedWindow creates a fixed window limiter allowing limit requests per window.
func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Limit returns the number of requests allowed per window.
func (fw *FixedWindow) Limit() int { return fw.limit }

// Window returns the window length.
func (fw *FixedWindow) Window() time.Duration { return fw.window }

// Allow counts a single request for the given key.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	w, err := fw.store.Increment(ctx, key, fw.limit, fw.window)
	if err != nil {
		return nil, err
	}

	return fw.result(w, w.Allowed), nil
}

// Status returns the current rate limit status without counting a request.
func (fw *FixedWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	w, err := fw.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	return fw.result(w, w.Count < int64(fw.limit)), nil
}

// Reset resets the rate limit for the given key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	return fw.store.Delete(ctx, key)
}

func (fw *FixedWindow) result(w Window, allowed bool) *Result {
	return &Result{
		Allowed:   allowed,
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(w.Count)),
		ResetAt:   w.ResetAt,
	}
}
