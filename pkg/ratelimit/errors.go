package ratelimit

import "errors"

var (
	ErrRateLimitExceeded = errors.New("ratelimit.errors.limit_exceeded")
	ErrInvalidLimit      = errors.New("ratelimit.errors.invalid_limit")
	ErrInvalidWindow     = errors.New("ratelimit.errors.invalid_window")
	ErrKeyRequired       = errors.New("ratelimit.errors.key_required")
	ErrStoreRequired     = errors.New("ratelimit.errors.store_required")
	ErrStoreUnavailable  = errors.New("ratelimit.errors.store_unavailable")
)
