package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("binder.errors.unsupported_media_type")
	ErrMissingContentType   = errors.New("binder.errors.missing_content_type")
	ErrInvalidJSON          = errors.New("binder.errors.invalid_json")
	ErrEmptyBody            = errors.New("binder.errors.empty_body")
	ErrPayloadTooLarge      = errors.New("binder.errors.payload_too_large")
	ErrInvalidTarget        = errors.New("binder.errors.invalid_target")
	// ErrBinderNotApplicable tells Wrap to skip a binder for this request.
	ErrBinderNotApplicable = errors.New("binder.errors.not_applicable")
)
