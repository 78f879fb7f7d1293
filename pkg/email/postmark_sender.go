package email

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/postmark"
)

// PostmarkAPI is the subset of the Postmark client used by PostmarkSender.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender delivers mail through Postmark.
type PostmarkSender struct {
	client PostmarkAPI
}

// NewPostmarkSender creates a Postmark-backed sender.
func NewPostmarkSender(serverToken, accountToken string) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
	}
	return &PostmarkSender{client: postmark.NewClient(serverToken, accountToken)}, nil
}

// NewPostmarkSenderWithClient wraps an existing client.
func NewPostmarkSenderWithClient(client PostmarkAPI) *PostmarkSender {
	return &PostmarkSender{client: client}
}

// Send implements Sender. Open and link tracking stay off for operator mail.
func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     msg.From,
		To:       strings.Join(msg.To, ","),
		ReplyTo:  msg.ReplyTo,
		Subject:  msg.Subject,
		Tag:      msg.Tag,
		TextBody: msg.Text,
		HTMLBody: msg.HTML,
	})
	if err != nil {
		return &DeliveryError{Provider: ProviderPostmark, Code: "transport", Err: err}
	}
	if resp.ErrorCode > 0 {
		return &DeliveryError{
			Provider: ProviderPostmark,
			Code:     strconv.FormatInt(resp.ErrorCode, 10),
			Err:      fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		}
	}
	return nil
}
