package pricing_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/internal/pricing"
)

const validSheet = `
width_coeff: 1
char_coeff: 2
rate_per_inch: 3
flat_fee: 10
style_multipliers: {cut-to-letter: 1, rectangle: 1, rounded: 1, circle: 1, none: 1}
color_surcharges: {clear: 0, black: 0, white: 0, smoke: 0, ice: 0, red: 0}
multicolor_surcharge: 0
round_to: 10
floor: 0
`

func TestLoad(t *testing.T) {
	t.Parallel()

	sheet, err := pricing.Load(strings.NewReader(validSheet))
	require.NoError(t, err)
	assert.Equal(t, 10, sheet.RoundTo)

	// (16.5*1 + 2*2)*3 + 10 = 71.5 -> 70
	assert.Equal(t, pricing.Price(70), pricing.NewEngine(sheet).Estimate(pricing.Configuration{Text: "AB"}))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sheet string
		err   error
	}{
		{"not yaml", "width_coeff: [", pricing.ErrParsingSheet},
		{"unknown field", validSheet + "discount: 5\n", pricing.ErrParsingSheet},
		{"zero rate", strings.Replace(validSheet, "rate_per_inch: 3", "rate_per_inch: 0", 1), pricing.ErrInvalidSheet},
		{"zero rounding", strings.Replace(validSheet, "round_to: 10", "round_to: 0", 1), pricing.ErrInvalidSheet},
		{"missing style", strings.Replace(validSheet, ", none: 1", "", 1), pricing.ErrIncompleteSheet},
		{"missing color", strings.Replace(validSheet, ", red: 0", "", 1), pricing.ErrIncompleteSheet},
		{"negative surcharge", strings.Replace(validSheet, "red: 0", "red: -5", 1), pricing.ErrInvalidSheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := pricing.Load(strings.NewReader(tt.sheet))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	sheet, err := pricing.FromConfig(pricing.Config{})
	require.NoError(t, err)
	assert.Equal(t, pricing.Price(205), sheet.Floor)

	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validSheet), 0o600))
	sheet, err = pricing.FromConfig(pricing.Config{SheetPath: path})
	require.NoError(t, err)
	assert.Equal(t, 10, sheet.RoundTo)

	_, err = pricing.FromConfig(pricing.Config{SheetPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, pricing.ErrOpeningSheet)
}
