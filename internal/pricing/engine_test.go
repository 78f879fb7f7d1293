package pricing_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/internal/catalog"
	"github.com/neontj/signquote/internal/pricing"
)

// formula mirrors the documented price formula with the default sheet constants.
func formula(widthIn float64, chars int, styleMul, colorSurcharge, multicolor float64) pricing.Price {
	base := (widthIn*1.08+float64(chars)*1.25)*5.8 + 35
	rounded := math.Floor((base*styleMul+colorSurcharge+multicolor)/5+0.5) * 5
	return pricing.Price(max(205, rounded))
}

func TestEngine_Estimate(t *testing.T) {
	t.Parallel()
	engine := pricing.NewEngine(nil)

	tests := []struct {
		name string
		cfg  pricing.Configuration
		want pricing.Price
	}{
		{"hello mini hits floor", pricing.Configuration{Text: "HELLO", SizeID: "mini", BackboardStyle: "cut-to-letter"}, 205},
		{"hello xxl", pricing.Configuration{Text: "HELLO", SizeID: "xxl"}, 470},
		{"hello xxl rectangle", pricing.Configuration{Text: "HELLO", SizeID: "xxl", BackboardStyle: "rectangle"}, 495},
		{"hello xxl multicolor", pricing.Configuration{Text: "HELLO", SizeID: "xxl", ColorMode: "multicolor"}, 490},
		{"hello xxl red", pricing.Configuration{Text: "HELLO", SizeID: "xxl", BackboardColor: "red"}, 495},
		{
			"supersized everything",
			pricing.Configuration{Text: "OPEN LATE", SizeID: "supersized", BackboardStyle: "circle", BackboardColor: "smoke", ColorMode: "multicolor"},
			730,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, engine.Estimate(tt.cfg))
		})
	}
}

func TestEngine_MatchesFormula(t *testing.T) {
	t.Parallel()
	engine := pricing.NewEngine(nil)

	styles := map[string]float64{"cut-to-letter": 1, "rectangle": 1.05, "rounded": 1.08, "circle": 1.10, "none": 0.95}
	colors := map[string]float64{"clear": 0, "black": 10, "white": 10, "smoke": 15, "ice": 15, "red": 25}

	for _, size := range catalog.Sizes.All() {
		for style, mul := range styles {
			for color, surcharge := range colors {
				cfg := pricing.Configuration{Text: "Good\nVibes", SizeID: string(size.ID), BackboardStyle: style, BackboardColor: color}
				assert.Equal(t, formula(size.WidthIn, 9, mul, surcharge, 0), engine.Estimate(cfg), "%+v", cfg)
			}
		}
	}
}

func TestEngine_UnknownIDsFallBack(t *testing.T) {
	t.Parallel()
	engine := pricing.NewEngine(nil)

	unknown := engine.Breakdown(pricing.Configuration{Text: "HI", SizeID: "galactic", BackboardStyle: "hexagon", BackboardColor: "plaid", ColorMode: "rainbow"})
	assert.Equal(t, catalog.SizeID("mini"), unknown.SizeID)
	assert.Equal(t, catalog.StyleCutToLetter, unknown.BackboardStyle)
	assert.Equal(t, catalog.ColorClear, unknown.BackboardColor)
	assert.Equal(t, catalog.ColorModeSingle, unknown.ColorMode)

	defaults := engine.Estimate(pricing.Configuration{Text: "HI"})
	assert.Equal(t, defaults, unknown.Total)
}

func TestEngine_Properties(t *testing.T) {
	t.Parallel()
	engine := pricing.NewEngine(nil)
	texts := []string{"", "A", "HELLO", "Open 24/7", strings.Repeat("Neon ", 40)}

	for _, text := range texts {
		for _, style := range catalog.BackboardStyles.Keys() {
			var prev pricing.Price
			for i, size := range catalog.Sizes.Keys() {
				cfg := pricing.Configuration{Text: text, SizeID: size, BackboardStyle: style}
				got := engine.Estimate(cfg)

				assert.Equal(t, got, engine.Estimate(cfg), "deterministic")
				assert.Zero(t, int(got)%5, "multiple of 5: %+v", cfg)
				assert.GreaterOrEqual(t, got, pricing.Price(205), "floor: %+v", cfg)
				if i > 0 {
					assert.GreaterOrEqual(t, got, prev, "monotonic in size: %+v", cfg)
				}
				prev = got

				cfg.ColorMode = "multicolor"
				assert.GreaterOrEqual(t, engine.Estimate(cfg), got, "multicolor surcharge: %+v", cfg)
			}
		}
	}
}

func TestEngine_Breakdown(t *testing.T) {
	t.Parallel()

	b := pricing.NewEngine(nil).Breakdown(pricing.Configuration{Text: "HELLO", SizeID: "xxl", BackboardStyle: "rectangle", ColorMode: "multicolor"})
	assert.Equal(t, 5, b.CharCount)
	assert.Equal(t, 64.0, b.WidthIn)
	assert.InDelta(t, 75.37, b.LEDInches, 1e-9)
	assert.InDelta(t, 472.146, b.Base, 1e-9)
	assert.Equal(t, 1.05, b.StyleMultiplier)
	assert.Equal(t, 20.0, b.MulticolorSurcharge)
	assert.InDelta(t, 472.146*1.05+20, b.Subtotal, 1e-9)
	assert.Equal(t, pricing.Price(515), b.Rounded)
	assert.Equal(t, pricing.Price(515), b.Total)
	assert.Equal(t, pricing.Price(205), b.Floor)
}

func TestCharCount(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":             1,
		"\n\r\n":       1,
		"HELLO":        5,
		"Good\nVibes":  9,
		"Good\r\nVibe": 8,
		"a b":          3,
		"Cafe\u0301":   4,
		"ネオン":          3,
	}
	for in, want := range tests {
		assert.Equal(t, want, pricing.CharCount(in), "input %q", in)
	}
}

func TestPrice_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "$205", pricing.Price(205).String())
	assert.Equal(t, "$1,255", pricing.Price(1255).String())
	assert.Equal(t, "$0", pricing.Price(0).String())
}

func TestNewEngine_CustomSheet(t *testing.T) {
	t.Parallel()

	sheet := pricing.DefaultSheet()
	sheet.Floor = 500
	require.Equal(t, pricing.Price(500), pricing.NewEngine(sheet).Estimate(pricing.Configuration{Text: "A"}))
	assert.Equal(t, pricing.Price(205), pricing.NewEngine(nil).Sheet().Floor)
}
