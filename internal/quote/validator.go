package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/neontj/signquote/internal/catalog"
	"github.com/neontj/signquote/pkg/sanitizer"
	"github.com/neontj/signquote/pkg/validator"
)

// Field bounds.
const (
	MaxNameChars       = 100
	MaxEmailBytes      = 254
	MaxPhoneChars      = 40
	MaxNotesChars      = 2000
	MaxTextChars       = 500
	MaxTextLines       = 6
	MaxTextLineChars   = 100
	MaxPerLetterColors = 500
	MaxPageChars       = 500
	MaxUserAgentChars  = 500
	MaxChallengeBytes  = 4096
	MaxPreviewBytes    = 2 << 20
	MaxCompanyChars    = 200
)

var previewDataURL = regexp.MustCompile(`^data:image/(png|jpeg|webp);base64,`)

// knownFields are the accepted top-level fields in declaration order.
var knownFields = []string{"customer", "design", "meta", "company", "recaptchaToken"}

var (
	cleanText = sanitizer.Compose(sanitizer.NormalizeNewlines, sanitizer.NFC, sanitizer.Trim)
	cleanLine = sanitizer.Compose(sanitizer.NFC, sanitizer.Trim)
)

// Validator parses and checks raw quote submissions. It performs no I/O.
type Validator struct {
	strict bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithStrictFields reports unknown top-level fields instead of ignoring them.
func WithStrictFields(strict bool) ValidatorOption {
	return func(v *Validator) {
		v.strict = strict
	}
}

// NewValidator returns a lenient validator unless WithStrictFields(true) is given.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Strict reports whether unknown top-level fields are rejected.
func (v *Validator) Strict() bool {
	return v.strict
}

// Validate decodes raw JSON into a normalized Submission. On failure it
// returns validator.ValidationErrors listing every violation in field
// declaration order.
func (v *Validator) Validate(raw []byte) (*Submission, error) {
	var errs validator.ValidationErrors

	root := &object{errs: &errs}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &root.fields) != nil {
		errs.Add(validator.ValidationError{
			Field:          "body",
			Message:        "must be a JSON object",
			TranslationKey: "validation.invalid_body",
		})
		return nil, errs
	}

	sub := &Submission{}
	if customer, ok := root.Object("customer"); ok {
		sub.Customer = validateCustomer(customer)
	}
	if design, ok := root.Object("design"); ok {
		sub.Design = validateDesign(design)
	}
	if meta, ok := root.Object("meta"); ok {
		sub.Meta = validateMeta(meta, root)
	}
	if company, ok := root.String("company"); ok {
		root.check(validator.MaxChars("company", company, MaxCompanyChars))
		sub.Company = company
	}

	if v.strict {
		var unknown []string
		for field := range root.fields {
			if !slices.Contains(knownFields, field) {
				unknown = append(unknown, field)
			}
		}
		slices.Sort(unknown)
		for _, field := range unknown {
			errs.Add(validator.ValidationError{
				Field:             field,
				Message:           "unknown field",
				TranslationKey:    "validation.unknown_field",
				TranslationValues: map[string]any{"field": field},
			})
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return sub, nil
}

func validateCustomer(o *object) Customer {
	var c Customer

	if name, ok := o.String("name"); ok {
		name = cleanLine(name)
		field := o.name("name")
		o.check(
			validator.Required(field, name),
			validator.MaxChars(field, name, MaxNameChars),
			validator.NoControlChars(field, name),
			validator.SingleLine(field, name),
		)
		c.Name = name
	}

	if email, ok := o.String("email"); ok {
		email = strings.TrimSpace(email)
		field := o.name("email")
		o.check(
			validator.Required(field, email),
			validator.When(email != "", validator.MaxBytes(field, email, MaxEmailBytes)),
			validator.When(email != "" && len(email) <= MaxEmailBytes, validator.ValidEmail(field, email)),
		)
		c.Email = sanitizer.NormalizeEmail(email)
	}

	if phone, ok := o.String("phone"); ok {
		phone = cleanLine(phone)
		field := o.name("phone")
		o.check(
			validator.MaxChars(field, phone, MaxPhoneChars),
			validator.NoControlChars(field, phone),
			validator.SingleLine(field, phone),
		)
		c.Phone = phone
	}

	if notes, ok := o.String("notes", "message"); ok {
		notes = cleanText(notes)
		field := o.name("notes")
		o.check(
			validator.MaxChars(field, notes, MaxNotesChars),
			validator.NoControlChars(field, notes),
		)
		c.Notes = notes
	}

	return c
}

func validateDesign(o *object) Design {
	var d Design

	if text, ok := o.String("text"); ok {
		text = cleanText(text)
		field := o.name("text")
		o.check(
			validator.Required(field, text),
			validator.MaxChars(field, text, MaxTextChars),
			validator.MaxLines(field, text, MaxTextLines),
			validator.MaxLineChars(field, text, MaxTextLineChars),
			validator.NoControlChars(field, text),
		)
		d.Text = text
	}

	if font, ok := o.String("fontId"); ok {
		id := catalog.NormalizeFontID(font)
		o.check(validator.InList(o.name("fontId"), id, catalog.Fonts.Keys()))
		d.FontID = catalog.FontID(id)
	}

	if size, ok := o.String("sizeId"); ok {
		id := strings.ToLower(strings.TrimSpace(size))
		field := o.name("sizeId")
		o.check(
			validator.Required(field, id),
			validator.When(id != "", validator.InList(field, id, catalog.Sizes.Keys())),
		)
		d.SizeID = catalog.SizeID(id)
	}

	if mode, ok := validateColorMode(o); ok {
		d.ColorMode = mode
	}

	if color, ok := o.String("singleColor"); ok {
		color = strings.TrimSpace(color)
		field := o.name("singleColor")
		o.check(
			validator.Required(field, color),
			validator.When(color != "", validator.HexColor(field, color)),
		)
		d.SingleColor = strings.ToUpper(color)
	}

	d.PerLetterColors = validatePerLetterColors(o)

	if style, ok := o.String("backboardStyle", "backStyle"); ok {
		d.BackboardStyle = catalog.BackboardStyle(enumOrDefault(o, "backboardStyle", style, catalog.BackboardStyles))
	}
	if color, ok := o.String("backboardColor", "backColor"); ok {
		d.BackboardColor = catalog.BackboardColor(enumOrDefault(o, "backboardColor", color, catalog.BackboardColors))
	}

	return d
}

// validateColorMode reads colorMode, or the legacy boolean multicolor flag.
func validateColorMode(o *object) (catalog.ColorMode, bool) {
	if _, present := o.lookup("colorMode"); present {
		mode, ok := o.String("colorMode")
		if !ok {
			return "", false
		}
		return catalog.ColorMode(enumOrDefault(o, "colorMode", mode, catalog.ColorModes)), true
	}

	multicolor, present, ok := o.Bool("multicolor")
	switch {
	case !ok:
		return "", false
	case present && multicolor:
		return catalog.ColorModeMulticolor, true
	default:
		return catalog.ColorModeSingle, true
	}
}

func validatePerLetterColors(o *object) []string {
	items, ok := o.Array("perLetterColors", "perLetter")
	if !ok || len(items) == 0 {
		return nil
	}
	name := o.name("perLetterColors")
	if len(items) > MaxPerLetterColors {
		o.check(validator.MaxItems(name, len(items), MaxPerLetterColors))
		return nil
	}

	colors := make([]string, len(items))
	for i, item := range items {
		entry := fmt.Sprintf("%s[%d]", name, i)
		var color string
		if err := json.Unmarshal(item, &color); err != nil {
			o.check(validator.InvalidType(entry, "string"))
			continue
		}
		color = strings.TrimSpace(color)
		o.check(validator.HexColor(entry, color))
		colors[i] = strings.ToUpper(color)
	}
	return colors
}

// enumOrDefault resolves an optional enum, reporting values outside the catalog.
func enumOrDefault[T catalog.Entry](o *object, field, value string, c *catalog.Catalog[T]) string {
	id := strings.ToLower(strings.TrimSpace(value))
	if id == "" {
		return c.Default().Key()
	}
	o.check(validator.InList(o.name(field), id, c.Keys()))
	return id
}

func validateMeta(o, root *object) Meta {
	var m Meta

	if page, ok := o.String("page"); ok {
		page = strings.TrimSpace(page)
		o.check(validator.MaxChars(o.name("page"), page, MaxPageChars))
		m.Page = page
	}

	if ua, ok := o.String("userAgent"); ok {
		ua = strings.TrimSpace(ua)
		o.check(validator.MaxChars(o.name("userAgent"), ua, MaxUserAgentChars))
		m.UserAgent = ua
	}

	if estimate := o.Number("estimate"); estimate != nil {
		o.check(validator.NonNegative(o.name("estimate"), *estimate))
		m.Estimate = estimate
	}

	token, ok := o.String("challengeToken")
	field := o.name("challengeToken")
	if ok && token == "" {
		token, ok = root.String("recaptchaToken")
		field = "recaptchaToken"
	}
	if ok {
		token = strings.TrimSpace(token)
		o.check(validator.MaxBytes(field, token, MaxChallengeBytes))
		m.ChallengeToken = token
	}

	if preview, ok := o.String("renderedPreviewImage", "mockupDataUrl"); ok {
		preview = strings.TrimSpace(preview)
		field := o.name("renderedPreviewImage")
		o.check(
			validator.When(preview != "", validator.MaxBytes(field, preview, MaxPreviewBytes)),
			validator.When(preview != "" && len(preview) <= MaxPreviewBytes,
				validator.MatchesRegex(field, preview, previewDataURL, "png, jpeg or webp data URL")),
		)
		m.PreviewImage = preview
	}

	return m
}
