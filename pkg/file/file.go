// Package file decodes inline images and stores them in S3-compatible buckets.
package file

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
)

// ImageMIMETypes are the image types accepted in data URLs.
var ImageMIMETypes = []string{"image/png", "image/jpeg", "image/webp"}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Blob is decoded binary content with its declared MIME type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Extension returns the file extension for the blob's MIME type.
func (b Blob) Extension() string {
	if ext, ok := extensions[b.MIMEType]; ok {
		return ext
	}
	return ".bin"
}

// Object describes a stored object.
type Object struct {
	Key      string
	Size     int64
	MIMEType string
	URL      string
}

// Storage persists blobs under a key and exposes them by URL.
type Storage interface {
	Put(ctx context.Context, key string, blob Blob) (*Object, error)
	URL(key string) string
}

// ParseDataURL decodes a base64 data URL of one of the allowed MIME types.
// The content is sniffed with http.DetectContentType and must agree with
// the declared type. maxBytes <= 0 disables the size check.
func ParseDataURL(s string, maxBytes int, allowed ...string) (Blob, error) {
	if len(allowed) == 0 {
		allowed = ImageMIMETypes
	}

	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Blob{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Blob{}, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Blob{}, fmt.Errorf("%w: payload must be base64", ErrInvalidDataURL)
	}
	mimeType = strings.ToLower(mimeType)
	if !slices.Contains(allowed, mimeType) {
		return Blob{}, fmt.Errorf("%w: %s", ErrMIMETypeNotAllowed, mimeType)
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes {
		return Blob{}, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Blob{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}

	// Magic bytes, not the declared header, decide the type.
	if detected := http.DetectContentType(data); detected != mimeType {
		return Blob{}, fmt.Errorf("%w: declared %s, detected %s", ErrMIMETypeNotAllowed, mimeType, detected)
	}

	return Blob{MIMEType: mimeType, Data: data}, nil
}

// CleanKey normalizes an object key and rejects traversal.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return path.Clean(key), nil
}
