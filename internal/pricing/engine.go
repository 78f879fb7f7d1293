// Package pricing computes sign price estimates from a design configuration.
//
// Estimates are pure: the same configuration and sheet always produce the
// same price, so the customizer preview and the quote notification agree.
package pricing

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/neontj/signquote/internal/catalog"
)

// Configuration is the priced subset of a design. Unknown ids resolve to
// the catalog defaults.
type Configuration struct {
	Text           string `json:"text"`
	FontID         string `json:"fontId,omitempty"`
	SizeID         string `json:"sizeId"`
	BackboardStyle string `json:"backboardStyle,omitempty"`
	BackboardColor string `json:"backboardColor,omitempty"`
	ColorMode      string `json:"colorMode,omitempty"`
}

// Breakdown lists every term of an estimate.
type Breakdown struct {
	SizeID              catalog.SizeID         `json:"sizeId"`
	BackboardStyle      catalog.BackboardStyle `json:"backboardStyle"`
	BackboardColor      catalog.BackboardColor `json:"backboardColor"`
	ColorMode           catalog.ColorMode      `json:"colorMode"`
	CharCount           int                    `json:"charCount"`
	WidthIn             float64                `json:"widthIn"`
	LEDInches           float64                `json:"ledInches"`
	Base                float64                `json:"base"`
	StyleMultiplier     float64                `json:"styleMultiplier"`
	ColorSurcharge      float64                `json:"colorSurcharge"`
	MulticolorSurcharge float64                `json:"multicolorSurcharge"`
	Subtotal            float64                `json:"subtotal"`
	Rounded             Price                  `json:"rounded"`
	Floor               Price                  `json:"floor"`
	Total               Price                  `json:"total"`
}

// Engine prices configurations against a sheet. It is safe for concurrent use.
type Engine struct {
	sheet *Sheet
}

// NewEngine returns an engine for sheet. A nil sheet uses the embedded default.
func NewEngine(sheet *Sheet) *Engine {
	if sheet == nil {
		sheet = DefaultSheet()
	}
	return &Engine{sheet: sheet}
}

// Sheet returns the engine's price sheet.
func (e *Engine) Sheet() *Sheet {
	return e.sheet
}

// Estimate returns the rounded, floored price for cfg.
func (e *Engine) Estimate(cfg Configuration) Price {
	return e.Breakdown(cfg).Total
}

// Breakdown computes the estimate and returns its intermediate terms.
func (e *Engine) Breakdown(cfg Configuration) Breakdown {
	s := e.sheet
	size := catalog.Sizes.ResolveOrDefault(cfg.SizeID)
	style := catalog.BackboardStyles.ResolveOrDefault(cfg.BackboardStyle)
	color := catalog.BackboardColors.ResolveOrDefault(cfg.BackboardColor)
	mode := catalog.ColorModes.ResolveOrDefault(cfg.ColorMode)

	b := Breakdown{
		SizeID:          size.ID,
		BackboardStyle:  style.ID,
		BackboardColor:  color.ID,
		ColorMode:       mode.ID,
		CharCount:       CharCount(cfg.Text),
		WidthIn:         size.WidthIn,
		StyleMultiplier: s.StyleMultipliers[string(style.ID)],
		ColorSurcharge:  s.ColorSurcharges[string(color.ID)],
		Floor:           s.Floor,
	}
	if b.StyleMultiplier == 0 {
		b.StyleMultiplier = 1
	}
	if mode.ID == catalog.ColorModeMulticolor {
		b.MulticolorSurcharge = s.MulticolorSurcharge
	}

	b.LEDInches = b.WidthIn*s.WidthCoeff + float64(b.CharCount)*s.CharCoeff
	b.Base = b.LEDInches*s.RatePerInch + s.FlatFee
	b.Subtotal = b.Base*b.StyleMultiplier + b.ColorSurcharge + b.MulticolorSurcharge
	b.Rounded = roundTo(b.Subtotal, s.RoundTo)
	b.Total = max(b.Floor, b.Rounded)
	return b
}

// CharCount returns the number of characters in text after NFC
// normalization with line breaks removed. The minimum is 1.
func CharCount(text string) int {
	text = norm.NFC.String(text)
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	return max(1, len([]rune(text)))
}

// roundTo rounds v to the nearest multiple of inc, halves rounding up.
func roundTo(v float64, inc int) Price {
	step := float64(inc)
	return Price(math.Floor(v/step+0.5) * step)
}
