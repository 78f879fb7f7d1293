package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PingTimeout bounds one readiness ping, so a stalled server fails the check
// before the readiness handler gives up.
const PingTimeout = 2 * time.Second

// Healthcheck returns a readiness check that pings client within PingTimeout.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("%w: no client", ErrHealthcheckFailed)
		}

		ctx, cancel := context.WithTimeout(ctx, PingTimeout)
		defer cancel()

		start := time.Now()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: ping failed after %s: %w", ErrHealthcheckFailed, time.Since(start).Round(time.Millisecond), err)
		}
		return nil
	}
}
