// Package email delivers transactional messages through Amazon SES, Postmark,
// or a local directory for development.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neontj/signquote/pkg/validator"
)

// Provider names.
const (
	ProviderSES      = "ses"
	ProviderPostmark = "postmark"
	ProviderFile     = "file"
)

// Charset is used for every text part.
const Charset = "UTF-8"

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a multipart (text and HTML) email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"-"`
	HTML    string   `json:"-"`
	Tag     string   `json:"tag,omitempty"`
}

// Validate checks addresses and that subject and at least one body are set.
// Addresses may carry a display name.
func (m Message) Validate() error {
	switch {
	case !validator.IsMailbox(m.From):
		return fmt.Errorf("%w: From must be a valid email address", ErrInvalidMessage)
	case len(m.To) == 0:
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	case m.ReplyTo != "" && !validator.IsMailbox(m.ReplyTo):
		return fmt.Errorf("%w: ReplyTo must be a valid email address", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: Subject is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.HTML) == "":
		return fmt.Errorf("%w: a text or HTML body is required", ErrInvalidMessage)
	}
	for _, to := range m.To {
		if !validator.IsMailbox(to) {
			return fmt.Errorf("%w: recipient %q is not a valid email address", ErrInvalidMessage, to)
		}
	}
	return nil
}

// DeliveryError is returned when a provider rejects or fails a send.
// It matches ErrFailedToSendEmail with errors.Is.
type DeliveryError struct {
	Provider string
	Code     string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s: %s delivery failed (%s): %v", ErrFailedToSendEmail, e.Provider, e.Code, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{ErrFailedToSendEmail, e.Err}
}

// DeliveryCode returns the provider and provider error code carried by err.
func DeliveryCode(err error) (provider, code string, ok bool) {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Provider, de.Code, true
	}
	return "", "", false
}
