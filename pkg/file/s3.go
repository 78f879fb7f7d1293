package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API used by S3Storage.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures preview uploads. An empty Bucket disables them.
type S3Config struct {
	Bucket         string        `env:"PREVIEW_S3_BUCKET"`
	Region         string        `env:"PREVIEW_S3_REGION"`
	AccessKeyID    string        `env:"PREVIEW_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"PREVIEW_S3_SECRET_ACCESS_KEY"`
	Endpoint       string        `env:"PREVIEW_S3_ENDPOINT"` // S3-compatible services
	BaseURL        string        `env:"PREVIEW_S3_BASE_URL"` // public URL base
	ForcePathStyle bool          `env:"PREVIEW_S3_FORCE_PATH_STYLE"`
	Prefix         string        `env:"PREVIEW_S3_PREFIX" envDefault:"previews/"`
	UploadTimeout  time.Duration `env:"PREVIEW_UPLOAD_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// S3Storage implements Storage for Amazon S3 and S3-compatible services.
// It is safe for concurrent use.
type S3Storage struct {
	client        S3Client
	bucket        string
	prefix        string
	baseURL       string
	uploadTimeout time.Duration
}

// S3Option configures S3Storage.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ClientOptions []func(*s3.Options)
}

// WithS3Client sets a pre-configured client.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets the HTTP client used by the AWS SDK.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

// WithS3ClientOption adds an S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// NewS3Storage returns a storage for cfg. Bucket and Region are required.
// Without WithS3Client the client is built from the default AWS credential
// chain, overridden by static keys when both are set.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	var o s3Options
	for _, opt := range opts {
		opt(&o)
	}

	client := o.s3Client
	if client == nil {
		c, err := newS3Client(ctx, cfg, o)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        withSlash(strings.TrimPrefix(cfg.Prefix, "/")),
		baseURL:       withSlash(publicBaseURL(cfg)),
		uploadTimeout: cfg.UploadTimeout,
	}, nil
}

func newS3Client(ctx context.Context, cfg S3Config, o s3Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}
	if o.httpClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		so.UsePathStyle = cfg.ForcePathStyle
		for _, fn := range o.s3ClientOptions {
			fn(so)
		}
	}), nil
}

// publicBaseURL is BaseURL, else the path-style endpoint URL, else the
// virtual-hosted AWS URL.
func publicBaseURL(cfg S3Config) string {
	switch {
	case cfg.BaseURL != "":
		return cfg.BaseURL
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com"
	}
}

// withSlash appends a trailing slash to non-empty s.
func withSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// Put uploads blob under the storage prefix plus key.
func (s *S3Storage) Put(ctx context.Context, key string, blob Blob) (*Object, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	key = s.prefix + key

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob.Data),
		ContentType:   aws.String(blob.MIMEType),
		ContentLength: aws.Int64(int64(len(blob.Data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, classifyS3Error(err, "put object")
	}

	return &Object{
		Key:      key,
		Size:     int64(len(blob.Data)),
		MIMEType: blob.MIMEType,
		URL:      s.baseURL + key,
	}, nil
}

// URL returns the public URL for a stored key.
func (s *S3Storage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}

var s3ErrorCodes = map[string]error{
	"AccessDenied":       ErrAccessDenied,
	"RequestTimeout":     ErrRequestTimeout,
	"SlowDown":           ErrServiceUnavailable,
	"ServiceUnavailable": ErrServiceUnavailable,
	"NoSuchBucket":       ErrBucketNotFound,
}

// classifyS3Error maps SDK failures onto the package sentinels.
func classifyS3Error(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrOperationTimeout, op)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s", ErrOperationCanceled, op)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if sentinel, ok := s3ErrorCodes[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s", sentinel, op)
		}
		return fmt.Errorf("%w: %s (code %s): %v", ErrUploadFailed, op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUploadFailed, op, err)
}
