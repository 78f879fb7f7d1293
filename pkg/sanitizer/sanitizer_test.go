package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neontj/signquote/pkg/sanitizer"
)

func TestSingleLine(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  Open\n 24/7 ": "Open 24/7",
		"a\t\tb\r\nc":    "a b c",
		"":               "",
		"\n\n":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizer.SingleLine(in), "%q", in)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HELLO", sanitizer.Truncate("HELLO", 50, "..."))
	assert.Equal(t, "HEL...", sanitizer.Truncate("HELLO", 3, "..."))
	assert.Equal(t, "Café", sanitizer.Truncate("Café", 4, "..."))
	assert.Equal(t, "Ca...", sanitizer.Truncate("Café", 2, "..."))
	assert.Equal(t, "", sanitizer.Truncate("x", 0, "..."))
	assert.Equal(t, strings.Repeat("é", 50)+"...", sanitizer.Truncate(strings.Repeat("é", 60), 50, "..."))
}

func TestNormalizers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\nc", sanitizer.NormalizeNewlines("a\r\nb\rc"))
	assert.Equal(t, "ab\n\tc", sanitizer.RemoveControlChars("a\x00b\n\t\x1bc"))
	assert.Equal(t, "jane@example.com", sanitizer.NormalizeEmail("  Jane@Example.COM "))
	assert.Equal(t, "\u00e9", sanitizer.NFC("e\u0301"))
}

func TestApplyCompose(t *testing.T) {
	t.Parallel()

	clean := sanitizer.Compose(sanitizer.NormalizeNewlines, sanitizer.Trim)
	assert.Equal(t, "a\nb", clean("  a\r\nb \n"))
	assert.Equal(t, "x", sanitizer.Apply(" x ", sanitizer.Trim))
	assert.Equal(t, " x ", sanitizer.Apply(" x "))
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, sanitizer.SplitList(" a@x.com, ,b@x.com,"))
	assert.Empty(t, sanitizer.SplitList(""))
	assert.Equal(t, []string{"c"}, sanitizer.CleanList([]string{" ", "c "}))
}
