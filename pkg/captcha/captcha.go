// Package captcha verifies reCAPTCHA tokens against Google's siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is Google's siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	ErrTokenRequired      = errors.New("captcha.errors.token_required")
	ErrVerificationFailed = errors.New("captcha.errors.verification_failed")
	ErrScoreTooLow        = errors.New("captcha.errors.score_too_low")
	ErrUnavailable        = errors.New("captcha.errors.unavailable")
)

// Config configures the verifier. An empty Secret disables verification.
type Config struct {
	Secret    string        `env:"RECAPTCHA_SECRET"`
	VerifyURL string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64       `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.3"`
	Timeout   time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether a secret is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Secret) != ""
}

// Response is the siteverify response body.
// Score is nil for v2 checkbox tokens.
type Response struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks a token for the given remote IP.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (Response, error)
}

// Client is an HTTP Verifier.
type Client struct {
	cfg  Config
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New returns a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	c := &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify posts the token and checks success and, when present, the score.
// Transport and decoding errors wrap ErrUnavailable.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (Response, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Response{}, ErrTokenRequired
	}

	form := url.Values{"secret": {c.cfg.Secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, errors.Join(ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: siteverify responded %d", ErrUnavailable, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return Response{}, errors.Join(ErrUnavailable, err)
	}

	if !out.Success {
		return out, fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(out.ErrorCodes, ","))
	}
	if out.Score != nil && *out.Score < c.cfg.MinScore {
		return out, fmt.Errorf("%w: %.2f < %.2f", ErrScoreTooLow, *out.Score, c.cfg.MinScore)
	}
	return out, nil
}
