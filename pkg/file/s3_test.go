package file_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/pkg/file"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client file.S3Client, cfg file.S3Config) *file.S3Storage {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "neontj-previews"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	s, err := file.NewS3Storage(context.Background(), cfg, file.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_Config(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
	_, err = file.NewS3Storage(context.Background(), file.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	assert.False(t, file.S3Config{}.Enabled())
	assert.True(t, file.S3Config{Bucket: "b"}.Enabled())
}

func TestS3Storage_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  file.S3Config
		want string
	}{
		{"aws default", file.S3Config{}, "https://neontj-previews.s3.us-east-1.amazonaws.com/a.png"},
		{"endpoint", file.S3Config{Endpoint: "http://localhost:9000/"}, "http://localhost:9000/neontj-previews/a.png"},
		{"base url", file.S3Config{BaseURL: "https://cdn.neontj.example"}, "https://cdn.neontj.example/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newS3(t, &MockS3Client{}, tt.cfg)
			assert.Equal(t, tt.want, s.URL("/a.png"))
		})
	}
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "neontj-previews" &&
			aws.ToString(in.Key) == "previews/ref-1.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			aws.ToInt64(in.ContentLength) == int64(len(pngBytes))
	})).Run(func(args mock.Arguments) {
		body, err := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(pngBytes, body))
	}).Return(&s3.PutObjectOutput{}, nil).Once()

	s := newS3(t, client, file.S3Config{Prefix: "previews", UploadTimeout: time.Second})
	obj, err := s.Put(context.Background(), "ref-1.png", file.Blob{MIMEType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	assert.Equal(t, "previews/ref-1.png", obj.Key)
	assert.Equal(t, int64(len(pngBytes)), obj.Size)
	assert.Equal(t, "https://neontj-previews.s3.us-east-1.amazonaws.com/previews/ref-1.png", obj.URL)
	client.AssertExpectations(t)
}

func TestS3Storage_PutErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		apiErr error
		want   error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, file.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, file.ErrServiceUnavailable},
		{"no bucket", &types.NoSuchBucket{}, file.ErrBucketNotFound},
		{"other api error", &smithy.GenericAPIError{Code: "EntityTooLarge"}, file.ErrUploadFailed},
		{"timeout", context.DeadlineExceeded, file.ErrOperationTimeout},
		{"canceled", context.Canceled, file.ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &MockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.apiErr).Once()

			s := newS3(t, client, file.S3Config{})
			_, err := s.Put(context.Background(), "ref.png", file.Blob{MIMEType: "image/png", Data: pngBytes})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestS3Storage_PutRejectsTraversal(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	s := newS3(t, client, file.S3Config{})
	_, err := s.Put(context.Background(), "../secret.png", file.Blob{MIMEType: "image/png", Data: pngBytes})
	assert.ErrorIs(t, err, file.ErrInvalidPath)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}
