package file_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/pkg/file"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		max   int
		mime  string
		err   error
	}{
		{"png", dataURL("image/png", pngBytes), 0, "image/png", nil},
		{"jpeg upper-case type", dataURL("IMAGE/JPEG", jpegBytes), 0, "image/jpeg", nil},
		{"not a data url", "https://example.com/a.png", 0, "", file.ErrInvalidDataURL},
		{"no comma", "data:image/png;base64", 0, "", file.ErrInvalidDataURL},
		{"not base64", "data:image/png," + string(pngBytes), 0, "", file.ErrInvalidDataURL},
		{"svg rejected", dataURL("image/svg+xml", []byte("<svg/>")), 0, "", file.ErrMIMETypeNotAllowed},
		{"spoofed type", dataURL("image/png", jpegBytes), 0, "", file.ErrMIMETypeNotAllowed},
		{"bad payload", "data:image/png;base64,@@@@", 0, "", file.ErrInvalidDataURL},
		{"empty payload", "data:image/png;base64,", 0, "", file.ErrInvalidDataURL},
		{"too large", dataURL("image/png", append(pngBytes, make([]byte, 64)...)), 16, "", file.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			blob, err := file.ParseDataURL(tt.input, tt.max)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mime, blob.MIMEType)
			assert.NotEmpty(t, blob.Data)
		})
	}
}

func TestBlob_Extension(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".png", file.Blob{MIMEType: "image/png"}.Extension())
	assert.Equal(t, ".jpg", file.Blob{MIMEType: "image/jpeg"}.Extension())
	assert.Equal(t, ".webp", file.Blob{MIMEType: "image/webp"}.Extension())
	assert.Equal(t, ".bin", file.Blob{MIMEType: "application/pdf"}.Extension())
}

func TestCleanKey(t *testing.T) {
	t.Parallel()

	key, err := file.CleanKey("/2026/10/ref.png")
	require.NoError(t, err)
	assert.Equal(t, "2026/10/ref.png", key)

	for _, bad := range []string{"", "  ", "../etc/passwd", "a/../../b"} {
		_, err := file.CleanKey(bad)
		assert.ErrorIs(t, err, file.ErrInvalidPath, "key %q", bad)
	}
	assert.False(t, strings.Contains(key, "//"))
}
