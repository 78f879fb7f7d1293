package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodyBytes bounds JSON bodies when no limit is given.
const DefaultMaxBodyBytes int64 = 1 << 20

// JSON creates a strict JSON binder: the media type must be
// application/json, unknown fields are rejected, and nothing may follow the
// first value. maxBytes <= 0 means DefaultMaxBodyBytes.
//
//	r.Post("/api/estimate", handler.Wrap(estimate,
//		handler.WithBinder[handler.Context, EstimateRequest](binder.JSON(0)),
//	))
func JSON(maxBytes int64) func(r *http.Request, v any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		if mediaType := mediaType(contentType); mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		body, err := readBody(r, maxBytes)
		if err != nil {
			return err
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrEmptyBody)
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
		}

		return nil
	}
}

// RawJSON captures the request body unparsed into a *[]byte or
// *json.RawMessage target. The body is not decoded, so structural checks
// are left to the caller. A missing Content-Type, application/json and
// text/plain (used by no-cors browser posts) are accepted.
func RawJSON(maxBytes int64) func(r *http.Request, v any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(r *http.Request, v any) error {
		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			switch mediaType := mediaType(contentType); mediaType {
			case "application/json", "text/plain":
			default:
				return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
			}
		}

		body, err := readBody(r, maxBytes)
		if err != nil {
			return err
		}

		switch target := v.(type) {
		case *[]byte:
			*target = body
		case *json.RawMessage:
			*target = body
		default:
			return fmt.Errorf("%w: %T", ErrInvalidTarget, v)
		}
		return nil
	}
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}

// readBody reads at most maxBytes. Reading one extra byte tells an exact
// fit from an oversized body.
func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if r.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxBytes)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxBytes)
	}
	return body, nil
}
