package quote

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/neontj/signquote/pkg/captcha"
	"github.com/neontj/signquote/pkg/logger"
	"github.com/neontj/signquote/pkg/ratelimit"
)

// Outcome is the decision of the abuse guard.
type Outcome string

const (
	OutcomeAdmitted        Outcome = "admitted"
	OutcomeDiscarded       Outcome = "discarded"
	OutcomeRateLimited     Outcome = "rate_limited"
	OutcomeChallengeFailed Outcome = "challenge_failed"
)

// Admission is the result of Guard.Admit.
type Admission struct {
	Outcome Outcome
	// RateLimit is nil when the honeypot short-circuited the check or the
	// store was unavailable.
	RateLimit *ratelimit.Result
	// Reason carries the underlying challenge error, for operator logs.
	Reason error
}

// Admitted reports whether the submission may proceed to delivery.
func (a Admission) Admitted() bool {
	return a.Outcome == OutcomeAdmitted
}

// Admitter decides whether a submission may proceed.
type Admitter interface {
	Admit(ctx context.Context, clientID, honeypot, challengeToken string) Admission
}

// RateKeyPrefix namespaces quote rate-limit keys.
const RateKeyPrefix = "quote:"

// Guard combines the honeypot, a fixed-window rate limit per client, and an
// optional challenge verifier. It is safe for concurrent use; the rate-limit
// store makes check-and-increment atomic.
type Guard struct {
	limiter  ratelimit.Limiter
	verifier captcha.Verifier
	logger   *slog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithVerifier enables challenge verification.
func WithVerifier(v captcha.Verifier) GuardOption {
	return func(g *Guard) {
		g.verifier = v
	}
}

// WithGuardLogger sets the logger.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard returns a guard using limiter for the per-client window.
func NewGuard(limiter ratelimit.Limiter, opts ...GuardOption) (*Guard, error) {
	if limiter == nil {
		return nil, ErrGuardRequired
	}
	g := &Guard{limiter: limiter, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// ChallengeEnabled reports whether challenge tokens are verified.
func (g *Guard) ChallengeEnabled() bool {
	return g.verifier != nil
}

// Admit evaluates the honeypot, then the rate limit, then the challenge.
// A honeypot hit consumes no count. A rate-limited request does not
// increment the counter. A failed challenge has already consumed its count.
func (g *Guard) Admit(ctx context.Context, clientID, honeypot, challengeToken string) Admission {
	log := g.logger.With(logger.Component("abuse_guard"))

	if strings.TrimSpace(honeypot) != "" {
		log.InfoContext(ctx, "honeypot field filled, discarding submission", logger.Outcome(string(OutcomeDiscarded)))
		return Admission{Outcome: OutcomeDiscarded}
	}

	clientID = strings.TrimSpace(clientID)
	bucket := clientID
	if bucket == "" {
		bucket = "unknown"
	}

	result, err := g.limiter.Allow(ctx, RateKeyPrefix+bucket)
	switch {
	case err != nil:
		// The store is down; admit rather than reject every customer.
		log.WarnContext(ctx, "rate limit store unavailable, admitting", logger.Error(err))
	case !result.Allowed:
		log.InfoContext(ctx, "rate limit exceeded",
			logger.Outcome(string(OutcomeRateLimited)),
			slog.Int("limit", result.Limit),
			slog.Time("reset_at", result.ResetAt),
		)
		return Admission{Outcome: OutcomeRateLimited, RateLimit: result}
	}

	if g.verifier != nil {
		if _, verr := g.verifier.Verify(ctx, challengeToken, clientID); verr != nil {
			level := slog.LevelInfo
			if errors.Is(verr, captcha.ErrUnavailable) {
				level = slog.LevelWarn
			}
			log.Log(ctx, level, "challenge verification failed",
				logger.Outcome(string(OutcomeChallengeFailed)),
				logger.Error(verr),
			)
			return Admission{Outcome: OutcomeChallengeFailed, RateLimit: result, Reason: verr}
		}
	}

	return Admission{Outcome: OutcomeAdmitted, RateLimit: result}
}
