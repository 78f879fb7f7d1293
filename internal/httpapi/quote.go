package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/neontj/signquote/handler"
	"github.com/neontj/signquote/internal/quote"
	"github.com/neontj/signquote/pkg/binder"
	"github.com/neontj/signquote/pkg/clientip"
	"github.com/neontj/signquote/pkg/environment"
)

// Health is the configuration snapshot reported by GET /api/quote.
type Health struct {
	MailProvider     string
	SESRegion        string
	SESFromSet       bool
	SESToCount       int
	DryRun           bool
	ExposeErrors     bool
	ChallengeEnabled bool
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

type healthResponse struct {
	Status           string          `json:"status"`
	Env              string          `json:"env"`
	DryRun           bool            `json:"quotes_dry_run"`
	MailProvider     string          `json:"mail_provider"`
	SESRegion        string          `json:"ses_region"`
	SESFromSet       bool            `json:"ses_from_set"`
	SESToCount       int             `json:"ses_to_count"`
	ExposeErrors     bool            `json:"expose_errors"`
	ChallengeEnabled bool            `json:"challenge_enabled"`
	RateLimit        rateLimitStatus `json:"rate_limit"`
}

type rateLimitStatus struct {
	Max           int   `json:"max"`
	WindowSeconds int64 `json:"window_seconds"`
}

func (a *api) submitQuote() http.HandlerFunc {
	h := func(ctx handler.Context, body json.RawMessage) handler.Response {
		res := a.quotes.Submit(ctx, body, quote.Client{IP: clientip.GetIPFromContext(ctx)})

		opts := []handler.JSONOption{
			handler.WithJSONStatus(res.Status()),
			handler.WithJSONHeader(ReferenceHeader, res.Reference),
		}
		if res.Error == quote.KindRateLimited {
			opts = append(opts, handler.WithJSONHeader("Retry-After", retryAfter(res.RetryAfter)))
		}
		return handler.JSON(res, opts...)
	}

	return handler.Wrap(h,
		handler.WithBinder[handler.Context, json.RawMessage](binder.RawJSON(a.maxBodyBytes)),
		handler.WithDecorators(handler.Recover[handler.Context, json.RawMessage]()),
		handler.WithErrorHandler[handler.Context, json.RawMessage](a.errorHandler()),
	)
}

func (a *api) quoteHealth(w http.ResponseWriter, r *http.Request) {
	h := a.health
	region := h.SESRegion
	if region == "" {
		region = "unset"
	}
	_ = handler.JSON(healthResponse{
		Status:           "active",
		Env:              environment.FromContext(r.Context()).String(),
		DryRun:           h.DryRun,
		MailProvider:     h.MailProvider,
		SESRegion:        region,
		SESFromSet:       h.SESFromSet,
		SESToCount:       h.SESToCount,
		ExposeErrors:     h.ExposeErrors,
		ChallengeEnabled: h.ChallengeEnabled,
		RateLimit: rateLimitStatus{
			Max:           h.RateLimitMax,
			WindowSeconds: int64(h.RateLimitWindow / time.Second),
		},
	}).Render(w, r)
}

// retryAfter formats d as whole seconds, rounded up, at least 1.
func retryAfter(d time.Duration) string {
	return strconv.Itoa(max(1, int(math.Ceil(d.Seconds()))))
}
