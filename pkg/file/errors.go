package file

import "errors"

var (
	// Data URL errors
	ErrInvalidDataURL     = errors.New("file.errors.invalid_data_url")
	ErrMIMETypeNotAllowed = errors.New("file.errors.mime_type_not_allowed")
	ErrFileTooLarge       = errors.New("file.errors.file_too_large")
	ErrInvalidPath        = errors.New("file.errors.invalid_path")

	// S3 errors
	ErrBucketNotFound     = errors.New("file.errors.bucket_not_found")
	ErrAccessDenied       = errors.New("file.errors.access_denied")
	ErrRequestTimeout     = errors.New("file.errors.request_timeout")
	ErrServiceUnavailable = errors.New("file.errors.service_unavailable") // throttling
	ErrUploadFailed       = errors.New("file.errors.upload_failed")

	ErrOperationTimeout  = errors.New("file.errors.operation_timeout")
	ErrOperationCanceled = errors.New("file.errors.operation_canceled")

	ErrInvalidConfig      = errors.New("file.errors.invalid_config")
	ErrFailedToLoadConfig = errors.New("file.errors.failed_to_load_aws_config")
)
