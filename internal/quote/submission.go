package quote

import (
	"strings"

	"github.com/neontj/signquote/internal/catalog"
	"github.com/neontj/signquote/internal/pricing"
)

// Customer is the requester's contact record.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Design is the sign being quoted. Colors are upper-cased #RRGGBB.
type Design struct {
	Text            string                 `json:"text"`
	FontID          catalog.FontID         `json:"fontId"`
	SizeID          catalog.SizeID         `json:"sizeId"`
	ColorMode       catalog.ColorMode      `json:"colorMode"`
	SingleColor     string                 `json:"singleColor"`
	PerLetterColors []string               `json:"perLetterColors,omitempty"`
	BackboardStyle  catalog.BackboardStyle `json:"backboardStyle"`
	BackboardColor  catalog.BackboardColor `json:"backboardColor"`
}

// Multicolor reports whether each letter carries its own color.
func (d Design) Multicolor() bool {
	return d.ColorMode == catalog.ColorModeMulticolor
}

// Letters returns the characters of the text that carry a color, which is
// every rune except line breaks.
func (d Design) Letters() []rune {
	letters := make([]rune, 0, len(d.Text))
	for _, r := range d.Text {
		if r != '\n' && r != '\r' {
			letters = append(letters, r)
		}
	}
	return letters
}

// LetterColor returns the color of letter i, falling back to SingleColor
// when the per-letter list is shorter than the text.
func (d Design) LetterColor(i int) string {
	if i >= 0 && i < len(d.PerLetterColors) && d.PerLetterColors[i] != "" {
		return d.PerLetterColors[i]
	}
	return d.SingleColor
}

// LetterColors returns one resolved color per letter.
func (d Design) LetterColors() []string {
	letters := d.Letters()
	colors := make([]string, len(letters))
	for i := range letters {
		colors[i] = d.LetterColor(i)
	}
	return colors
}

// Font returns the font entry, or the default for an unknown id.
func (d Design) Font() catalog.Font { return catalog.Fonts.ResolveOrDefault(string(d.FontID)) }

// Size returns the size entry, or the default for an unknown id.
func (d Design) Size() catalog.Size { return catalog.Sizes.ResolveOrDefault(string(d.SizeID)) }

// Style returns the backboard style entry, or the default for an unknown id.
func (d Design) Style() catalog.Style {
	return catalog.BackboardStyles.ResolveOrDefault(string(d.BackboardStyle))
}

// Backboard returns the backboard color entry, or the default for an unknown id.
func (d Design) Backboard() catalog.Color {
	return catalog.BackboardColors.ResolveOrDefault(string(d.BackboardColor))
}

// PricingConfiguration returns the priced subset of the design.
func (d Design) PricingConfiguration() pricing.Configuration {
	return pricing.Configuration{
		Text:           d.Text,
		FontID:         string(d.FontID),
		SizeID:         string(d.SizeID),
		BackboardStyle: string(d.BackboardStyle),
		BackboardColor: string(d.BackboardColor),
		ColorMode:      string(d.ColorMode),
	}
}

// Meta is contextual and anti-abuse data that is not part of the product.
type Meta struct {
	Page           string   `json:"page,omitempty"`
	UserAgent      string   `json:"userAgent,omitempty"`
	Estimate       *float64 `json:"estimate,omitempty"`
	ChallengeToken string   `json:"-"`
	PreviewImage   string   `json:"-"`
}

// Submission is a validated and normalized quote request.
type Submission struct {
	Customer Customer `json:"customer"`
	Design   Design   `json:"design"`
	Meta     Meta     `json:"meta"`
	// Company is the honeypot field.
	Company string `json:"-"`

	// PreviewURL is set once the preview image has been uploaded.
	PreviewURL string `json:"-"`
}

// Honeypot reports whether the honeypot field was filled in.
func (s *Submission) Honeypot() bool {
	return strings.TrimSpace(s.Company) != ""
}
