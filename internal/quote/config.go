package quote

import "time"

// Config holds the quote pipeline settings.
type Config struct {
	DryRun bool `env:"QUOTES_DRY_RUN"`

	ExposeErrors       bool `env:"QUOTE_EXPOSE_ERRORS"`
	LegacyExposeErrors bool `env:"EXPOSE_ERRORS"`
	ValidationDetails  bool `env:"QUOTE_VALIDATION_DETAILS" envDefault:"true"`
	StrictFields       bool `env:"QUOTE_STRICT_FIELDS"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10m"`

	EstimateRateLimitMax    int           `env:"ESTIMATE_RATE_LIMIT_MAX" envDefault:"120"`
	EstimateRateLimitWindow time.Duration `env:"ESTIMATE_RATE_LIMIT_WINDOW" envDefault:"1m"`

	MaxBodyBytes int64 `env:"QUOTE_MAX_BODY_BYTES" envDefault:"4194304"`
}

// Debug reports whether internal error details are returned to callers.
func (c Config) Debug() bool {
	return c.ExposeErrors || c.LegacyExposeErrors
}

// ShowValidationDetails reports whether field-level violations are returned.
func (c Config) ShowValidationDetails() bool {
	return c.Debug() || c.ValidationDetails
}
