// Package httpapi exposes the quote pipeline over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neontj/signquote/internal/pricing"
	"github.com/neontj/signquote/internal/quote"
	"github.com/neontj/signquote/pkg/clientip"
	"github.com/neontj/signquote/pkg/environment"
	"github.com/neontj/signquote/pkg/httpserver"
	"github.com/neontj/signquote/pkg/logger"
	"github.com/neontj/signquote/pkg/ratelimit"
	"github.com/neontj/signquote/pkg/requestid"
)

// ReferenceHeader carries the quote reference on every quote response.
const ReferenceHeader = "X-Quote-Reference"

// Submitter runs a raw quote submission through the pipeline.
type Submitter interface {
	Submit(ctx context.Context, raw []byte, client quote.Client) quote.Result
}

type api struct {
	quotes          Submitter
	engine          *pricing.Engine
	health          Health
	env             environment.Environment
	estimateLimiter ratelimit.Limiter
	readiness       []func(context.Context) error
	resolver        *clientip.Resolver
	maxBodyBytes    int64
	logger          *slog.Logger
}

// Option configures the router.
type Option func(*api)

// WithEngine sets the pricing engine used by the estimate endpoint.
func WithEngine(e *pricing.Engine) Option {
	return func(a *api) {
		if e != nil {
			a.engine = e
		}
	}
}

// WithHealth sets the configuration snapshot reported by GET /api/quote.
func WithHealth(h Health) Option {
	return func(a *api) {
		a.health = h
	}
}

// WithEnvironment sets the deployment environment stored in each request.
func WithEnvironment(env environment.Environment) Option {
	return func(a *api) {
		a.env = env
	}
}

// WithEstimateLimiter rate limits POST /api/estimate per client IP.
func WithEstimateLimiter(l ratelimit.Limiter) Option {
	return func(a *api) {
		a.estimateLimiter = l
	}
}

// WithReadinessChecks adds checks served by /readyz.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(a *api) {
		a.readiness = append(a.readiness, checks...)
	}
}

// WithClientIPResolver replaces the default client IP resolver.
func WithClientIPResolver(res *clientip.Resolver) Option {
	return func(a *api) {
		if res != nil {
			a.resolver = res
		}
	}
}

// WithMaxBodyBytes bounds the quote request body.
func WithMaxBodyBytes(n int64) Option {
	return func(a *api) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

// WithLogger sets the request error logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewRouter mounts the API routes and the health endpoints.
func NewRouter(quotes Submitter, opts ...Option) http.Handler {
	a := &api{
		quotes:       quotes,
		engine:       pricing.NewEngine(nil),
		env:          environment.Development,
		resolver:     clientip.NewResolver(),
		maxBodyBytes: 4 << 20,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(a.resolver.Middleware)
	r.Use(environment.Middleware(a.env))
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(a.logger))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.logger, a.readinessChecks()...))

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", a.submitQuote())
		r.Get("/quote", a.quoteHealth)
		r.Get("/catalog", a.listCatalog)

		estimate := a.estimate()
		if a.estimateLimiter != nil {
			r.With(ratelimit.Middleware(a.estimateLimiter,
				ratelimit.Prefixed("estimate:", ratelimit.ByIP),
				ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
					writeError(w, r, http.StatusTooManyRequests, string(quote.KindRateLimited))
				}),
				ratelimit.WithOnError(func(r *http.Request, err error) {
					a.logger.WarnContext(r.Context(), "estimate rate limit store unavailable", logger.Error(err))
				}),
			)).Post("/estimate", estimate)
		} else {
			r.Post("/estimate", estimate)
		}
	})

	return r
}

// readinessChecks always returns at least one check so /readyz reports
// readiness rather than liveness.
func (a *api) readinessChecks() []func(context.Context) error {
	if len(a.readiness) > 0 {
		return a.readiness
	}
	return []func(context.Context) error{func(context.Context) error { return nil }}
}
