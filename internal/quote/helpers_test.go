package quote_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// payload returns a valid submission body as a mutable map.
func payload() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":  "Jane Doe",
			"email": "Jane@Example.com",
			"phone": "+1 555 0100",
			"notes": "Need it by Friday",
		},
		"design": map[string]any{
			"text":            "HELLO",
			"fontId":          "n2",
			"sizeId":          "xxl",
			"colorMode":       "single",
			"singleColor":     "#ff00aa",
			"perLetterColors": []any{},
			"backboardStyle":  "rectangle",
			"backboardColor":  "black",
		},
		"meta": map[string]any{
			"page":      "https://neontj.example/custom-sign",
			"userAgent": "Mozilla/5.0",
			"estimate":  515,
		},
		"company": "",
	}
}

func section(p map[string]any, name string) map[string]any {
	return p[name].(map[string]any)
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
