package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neontj/signquote/pkg/sanitizer"
)

// DefaultRegion is used when neither SES_REGION nor AWS_REGION is set.
const DefaultRegion = "us-east-1"

// Config selects and configures the delivery provider.
// An empty Provider means no delivery credentials are configured.
type Config struct {
	Provider string `env:"MAIL_PROVIDER"`

	From     string   `env:"SES_FROM"`
	MailFrom string   `env:"MAIL_FROM"`
	To       []string `env:"SES_TO" envSeparator:","`
	MailTo   []string `env:"MAIL_TO" envSeparator:","`

	SESRegion          string `env:"SES_REGION"`
	AWSRegion          string `env:"AWS_REGION"`
	SESAccessKeyID     string `env:"SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `env:"SES_SECRET_ACCESS_KEY"`
	SESEndpoint        string `env:"SES_ENDPOINT"`
	SESConfigSet       string `env:"SES_CONFIGURATION_SET"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	DevDir string `env:"MAIL_DEV_DIR" envDefault:"./tmp/mail"`

	Timeout time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Provider) != ""
}

// ProviderName returns the normalized provider name.
func (c Config) ProviderName() string {
	return strings.ToLower(strings.TrimSpace(c.Provider))
}

// Sender returns the configured sender address.
func (c Config) Sender() string {
	if from := strings.TrimSpace(c.From); from != "" {
		return from
	}
	return strings.TrimSpace(c.MailFrom)
}

// Recipients returns the configured recipient list without blank entries.
func (c Config) Recipients() []string {
	if to := sanitizer.CleanList(c.To); len(to) > 0 {
		return to
	}
	return sanitizer.CleanList(c.MailTo)
}

// Region returns the SES region, falling back to AWS_REGION and DefaultRegion.
func (c Config) Region() string {
	switch {
	case c.SESRegion != "":
		return c.SESRegion
	case c.AWSRegion != "":
		return c.AWSRegion
	default:
		return DefaultRegion
	}
}

// RegionConfigured reports whether a region was set explicitly.
func (c Config) RegionConfigured() bool {
	return c.SESRegion != "" || c.AWSRegion != ""
}

// New builds the Sender selected by cfg.Provider.
// It returns ErrNoProvider when no provider is configured.
func New(ctx context.Context, cfg Config) (Sender, error) {
	switch cfg.ProviderName() {
	case "":
		return nil, ErrNoProvider
	case ProviderSES:
		return NewSESSender(ctx, SESConfig{
			Region:           cfg.Region(),
			AccessKeyID:      cfg.SESAccessKeyID,
			SecretAccessKey:  cfg.SESSecretAccessKey,
			Endpoint:         cfg.SESEndpoint,
			ConfigurationSet: cfg.SESConfigSet,
		})
	case ProviderPostmark:
		return NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	case ProviderFile:
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown MAIL_PROVIDER %q", ErrInvalidConfig, cfg.Provider)
	}
}
