package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementScript counts a hit unless the key already holds the limit.
// Returns {count, pttl_ms, allowed}.
var incrementScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return {current, redis.call('PTTL', KEYS[1]), 0}
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {current, redis.call('PTTL', KEYS[1]), 1}
`)

// RedisStore implements Store on top of Redis so that every instance of a
// deployment shares the same counters.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces every key written by the store.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}

	s := &RedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Increment runs the check-and-increment script atomically on the server.
func (s *RedisStore) Increment(ctx context.Context, key string, limit int, window time.Duration) (Window, error) {
	if limit <= 0 {
		return Window{}, ErrInvalidLimit
	}
	if window <= 0 {
		return Window{}, ErrInvalidWindow
	}

	res, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, limit, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 3 {
		return Window{}, ErrStoreUnavailable
	}

	return Window{
		Count:   res[0],
		ResetAt: s.resetAt(res[1], window),
		Allowed: res[2] == 1,
	}, nil
}

// Get returns the live window for key.
func (s *RedisStore) Get(ctx context.Context, key string) (Window, error) {
	k := s.prefix + key

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, k)
	ttlCmd := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Window{}, errors.Join(ErrStoreUnavailable, err)
	}

	count, err := getCmd.Int64()
	if errors.Is(err, redis.Nil) {
		return Window{}, nil
	}
	if err != nil {
		return Window{}, errors.Join(ErrStoreUnavailable, err)
	}

	return Window{Count: count, ResetAt: s.now().Add(max(0, ttlCmd.Val()))}, nil
}

// Delete removes the given key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) resetAt(pttlMillis int64, fallback time.Duration) time.Time {
	if pttlMillis < 0 {
		return s.now().Add(fallback)
	}
	return s.now().Add(time.Duration(pttlMillis) * time.Millisecond)
}
