package pricing

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neontj/signquote/internal/catalog"
)

//go:embed pricesheet.yaml
var defaultSheet []byte

// Config selects an operator-supplied price sheet.
type Config struct {
	SheetPath string `env:"PRICE_SHEET_PATH"`
}

// Sheet holds the tunable pricing constants.
type Sheet struct {
	WidthCoeff          float64            `yaml:"width_coeff" json:"widthCoeff"`
	CharCoeff           float64            `yaml:"char_coeff" json:"charCoeff"`
	RatePerInch         float64            `yaml:"rate_per_inch" json:"ratePerInch"`
	FlatFee             float64            `yaml:"flat_fee" json:"flatFee"`
	StyleMultipliers    map[string]float64 `yaml:"style_multipliers" json:"styleMultipliers"`
	ColorSurcharges     map[string]float64 `yaml:"color_surcharges" json:"colorSurcharges"`
	MulticolorSurcharge float64            `yaml:"multicolor_surcharge" json:"multicolorSurcharge"`
	RoundTo             int                `yaml:"round_to" json:"roundTo"`
	Floor               Price              `yaml:"floor" json:"floor"`
}

// DefaultSheet returns the embedded price sheet.
func DefaultSheet() *Sheet {
	sheet, err := Load(bytes.NewReader(defaultSheet))
	if err != nil {
		panic(fmt.Sprintf("pricing: embedded price sheet: %v", err))
	}
	return sheet
}

// Load parses and validates a YAML price sheet.
// Every catalog backboard style and color must have an entry.
func Load(r io.Reader) (*Sheet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Sheet
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Join(ErrParsingSheet, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a price sheet from path.
func LoadFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrOpeningSheet, err)
	}
	defer f.Close()
	return Load(f)
}

// FromConfig returns the configured sheet, or the embedded one when no path is set.
func FromConfig(cfg Config) (*Sheet, error) {
	if cfg.SheetPath == "" {
		return DefaultSheet(), nil
	}
	return LoadFile(cfg.SheetPath)
}

func (s *Sheet) validate() error {
	switch {
	case s.WidthCoeff < 0, s.CharCoeff < 0, s.RatePerInch <= 0, s.FlatFee < 0, s.MulticolorSurcharge < 0:
		return fmt.Errorf("%w: coefficients must be non-negative and rate_per_inch positive", ErrInvalidSheet)
	case s.RoundTo <= 0:
		return fmt.Errorf("%w: round_to must be positive", ErrInvalidSheet)
	case s.Floor < 0:
		return fmt.Errorf("%w: floor must be non-negative", ErrInvalidSheet)
	}

	for _, id := range catalog.BackboardStyles.Keys() {
		m, ok := s.StyleMultipliers[id]
		if !ok {
			return fmt.Errorf("%w: style_multipliers.%s is missing", ErrIncompleteSheet, id)
		}
		if m <= 0 {
			return fmt.Errorf("%w: style_multipliers.%s must be positive", ErrInvalidSheet, id)
		}
	}
	for _, id := range catalog.BackboardColors.Keys() {
		c, ok := s.ColorSurcharges[id]
		if !ok {
			return fmt.Errorf("%w: color_surcharges.%s is missing", ErrIncompleteSheet, id)
		}
		if c < 0 {
			return fmt.Errorf("%w: color_surcharges.%s must be non-negative", ErrInvalidSheet, id)
		}
	}
	return nil
}
