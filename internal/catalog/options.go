package catalog

import (
	"strconv"
	"strings"
)

type (
	FontID         string
	SizeID         string
	BackboardStyle string
	BackboardColor string
	ColorMode      string
)

const (
	StyleCutToLetter BackboardStyle = "cut-to-letter"
	StyleRectangle   BackboardStyle = "rectangle"
	StyleRounded     BackboardStyle = "rounded"
	StyleCircle      BackboardStyle = "circle"
	StyleNone        BackboardStyle = "none"

	ColorClear BackboardColor = "clear"
	ColorBlack BackboardColor = "black"
	ColorWhite BackboardColor = "white"
	ColorSmoke BackboardColor = "smoke"
	ColorIce   BackboardColor = "ice"
	ColorRed   BackboardColor = "red"

	ColorModeSingle     ColorMode = "single"
	ColorModeMulticolor ColorMode = "multicolor"
)

// Font is a masked font id with its display label.
type Font struct {
	ID    FontID `json:"id"`
	Label string `json:"label"`
}

func (f Font) Key() string { return string(f.ID) }

// Size is a physical sign size in inches.
type Size struct {
	ID       SizeID  `json:"id"`
	Label    string  `json:"label"`
	WidthIn  float64 `json:"widthIn"`
	HeightIn float64 `json:"heightIn"`
}

func (s Size) Key() string { return string(s.ID) }

// Dimensions formats the size as `W" x H"`.
func (s Size) Dimensions() string {
	return inches(s.WidthIn) + `" x ` + inches(s.HeightIn) + `"`
}

func inches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Style is a backboard cut.
type Style struct {
	ID    BackboardStyle `json:"id"`
	Label string         `json:"label"`
}

func (s Style) Key() string { return string(s.ID) }

// Color is a backboard acrylic color.
type Color struct {
	ID     BackboardColor `json:"id"`
	Label  string         `json:"label"`
	Swatch string         `json:"swatch"`
}

func (c Color) Key() string { return string(c.ID) }

// Mode is a lettering color mode.
type Mode struct {
	ID    ColorMode `json:"id"`
	Label string    `json:"label"`
}

func (m Mode) Key() string { return string(m.ID) }

var Fonts = New(
	Font{"n1", "Neon Tech"},
	Font{"n2", "Retro Tube"},
	Font{"n3", "Script Glow A"},
	Font{"n4", "Condensed Glow"},
	Font{"n5", "Clean Sans A"},
	Font{"n6", "Quirky Thin"},
	Font{"n7", "Rounded Fun"},
	Font{"n8", "Classic Neon"},
	Font{"n9", "Casual Hand"},
	Font{"n10", "Simple Sans"},
	Font{"n11", "Brush Script"},
	Font{"n12", "Playful Print"},
	Font{"n13", "Pop Thick"},
	Font{"n14", "Cute Script"},
	Font{"n15", "Mono Line"},
	Font{"n16", "Outline Neon"},
)

// Sizes are ordered by strictly increasing width.
var Sizes = New(
	Size{"mini", "Mini", 16.5, 8},
	Size{"xs", "Extra Small", 20, 10},
	Size{"small", "Small", 24, 12},
	Size{"medium", "Medium", 30, 14},
	Size{"large", "Large", 38, 18},
	Size{"xl", "X Large", 48, 22},
	Size{"xxl", "XX Large", 64, 30},
	Size{"supersized", "Supersized", 85, 38},
)

var BackboardStyles = New(
	Style{StyleCutToLetter, "Cut to Letter"},
	Style{StyleRectangle, "Rectangle"},
	Style{StyleRounded, "Rounded Rectangle"},
	Style{StyleCircle, "Circle"},
	Style{StyleNone, "No Backboard"},
)

var BackboardColors = New(
	Color{ColorClear, "Clear", "rgba(255,255,255,0.06)"},
	Color{ColorBlack, "Black", "rgba(0,0,0,0.96)"},
	Color{ColorWhite, "White", "rgba(255,255,255,0.96)"},
	Color{ColorSmoke, "Smoke", "rgba(60,60,60,0.7)"},
	Color{ColorIce, "Ice", "rgba(200,230,255,0.5)"},
	Color{ColorRed, "Red", "rgba(180,16,32,0.92)"},
)

var ColorModes = New(
	Mode{ColorModeSingle, "Single"},
	Mode{ColorModeMulticolor, "Multicolor"},
)

// legacyFonts maps font family names used by older clients to masked ids.
var legacyFonts = map[string]FontID{
	"orbitron":     "n1",
	"monoton":      "n2",
	"pacifico":     "n3",
	"rajdhani":     "n4",
	"adventpro":    "n5",
	"astloch":      "n6",
	"atma":         "n7",
	"beon":         "n8",
	"borel":        "n9",
	"capriola":     "n10",
	"charmonman":   "n11",
	"gaegu":        "n12",
	"grandstander": "n13",
	"hachikaku":    "n14",
	"hachimarupop": "n14",
	"monomaniac":   "n15",
	"nightlight":   "n16",
}

// NormalizeFontID maps legacy family names to masked ids.
// Empty input yields the default font id. Other values pass through lower-cased.
func NormalizeFontID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Fonts.Default().Key()
	}
	if masked, ok := legacyFonts[id]; ok {
		return string(masked)
	}
	return id
}
