package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/pkg/email"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestSESSender_Send(t *testing.T) {
	t.Parallel()

	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		simple := in.Content.Simple
		return aws.ToString(in.FromEmailAddress) == "quotes@neontj.example" &&
			assert.ObjectsAreEqual([]string{"owner@neontj.example", "ops@neontj.example"}, in.Destination.ToAddresses) &&
			assert.ObjectsAreEqual([]string{"jane@example.com"}, in.ReplyToAddresses) &&
			aws.ToString(simple.Subject.Data) == "NeonTJ Quote: HELLO" &&
			aws.ToString(simple.Subject.Charset) == "UTF-8" &&
			aws.ToString(simple.Body.Text.Charset) == "UTF-8" &&
			aws.ToString(simple.Body.Html.Charset) == "UTF-8" &&
			aws.ToString(simple.Body.Html.Data) == "<p>New quote request from Jane</p>" &&
			aws.ToString(in.ConfigurationSetName) == "quotes"
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil).Once()

	sender := email.NewSESSenderWithClient(client, "quotes")
	require.NoError(t, sender.Send(context.Background(), validMessage()))
	client.AssertExpectations(t)
}

func TestSESSender_ProviderError(t *testing.T) {
	t.Parallel()

	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."}).Once()

	err := email.NewSESSenderWithClient(client, "").Send(context.Background(), validMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, email.ErrFailedToSendEmail)

	provider, code, ok := email.DeliveryCode(err)
	require.True(t, ok)
	assert.Equal(t, "ses", provider)
	assert.Equal(t, "MessageRejected", code)
}

func TestSESSender_TransportError(t *testing.T) {
	t.Parallel()

	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	err := email.NewSESSenderWithClient(client, "").Send(context.Background(), validMessage())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	_, code, _ := email.DeliveryCode(err)
	assert.Equal(t, "unknown", code)
}

func TestSESSender_InvalidMessageSkipsClient(t *testing.T) {
	t.Parallel()

	client := &mockSES{}
	msg := validMessage()
	msg.From = ""

	err := email.NewSESSenderWithClient(client, "").Send(context.Background(), msg)
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
	client.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestNewSESSender_Config(t *testing.T) {
	t.Parallel()

	_, err := email.NewSESSender(context.Background(), email.SESConfig{})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewSESSender(context.Background(), email.SESConfig{Region: "us-east-1", AccessKeyID: "only-id"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	s, err := email.NewSESSender(context.Background(), email.SESConfig{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://127.0.0.1:4566",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
