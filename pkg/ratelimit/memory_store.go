package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements an in-process fixed window store.
// Counters are not shared between processes and are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type bucket struct {
	count   int64
	resetAt time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired windows are swept.
// A non-positive interval disables the background sweep; expired windows
// are then only replaced lazily.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.cleanupInterval = interval
	}
}

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:         make(map[string]*bucket),
		now:             time.Now,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}

	return s
}

// Increment counts one request for key within a single critical section.
func (s *MemoryStore) Increment(_ context.Context, key string, limit int, window time.Duration) (Window, error) {
	if limit <= 0 {
		return Window{}, ErrInvalidLimit
	}
	if window <= 0 {
		return Window{}, ErrInvalidWindow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, exists := s.buckets[key]

	if !exists || !now.Before(b.resetAt) {
		b = &bucket{count: 1, resetAt: now.Add(window)}
		s.buckets[key] = b
		return Window{Count: b.count, ResetAt: b.resetAt, Allowed: true}, nil
	}

	if b.count >= int64(limit) {
		return Window{Count: b.count, ResetAt: b.resetAt}, nil
	}

	b.count++
	return Window{Count: b.count, ResetAt: b.resetAt, Allowed: true}, nil
}

// Get returns the live window for key.
func (s *MemoryStore) Get(_ context.Context, key string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.buckets[key]
	if !exists || !s.now().Before(b.resetAt) {
		return Window{}, nil
	}

	return Window{Count: b.count, ResetAt: b.resetAt}, nil
}

// Delete removes the given key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets, key)
	return nil
}

// Len returns the number of tracked keys, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCleanup:
			return
		}
	}
}

// Sweep removes expired windows.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, b := range s.buckets {
		if !now.Before(b.resetAt) {
			delete(s.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
