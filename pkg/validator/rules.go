package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func newError(field, message, key string, values map[string]any) ValidationError {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return ValidationError{
		Field:             field,
		Message:           message,
		TranslationKey:    key,
		TranslationValues: values,
	}
}

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: newError(field, "field is required", "validation.required", nil),
	}
}

// MaxChars validates that value has at most max characters (runes).
func MaxChars(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: newError(field, fmt.Sprintf("must be at most %d characters long", max),
			"validation.max_length", map[string]any{"max": max}),
	}
}

// MaxBytes validates that value is at most max bytes long.
func MaxBytes(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: newError(field, fmt.Sprintf("must be at most %d bytes long", max),
			"validation.max_bytes", map[string]any{"max": max}),
	}
}

// MaxLines validates that value has at most max lines.
func MaxLines(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return strings.Count(value, "\n")+1 <= max },
		Error: newError(field, fmt.Sprintf("must have at most %d lines", max),
			"validation.max_lines", map[string]any{"max": max}),
	}
}

// MaxLineChars validates that no line of value exceeds max characters.
func MaxLineChars(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			for line := range strings.SplitSeq(value, "\n") {
				if utf8.RuneCountInString(line) > max {
					return false
				}
			}
			return true
		},
		Error: newError(field, fmt.Sprintf("each line must be at most %d characters long", max),
			"validation.max_line_length", map[string]any{"max": max}),
	}
}

// NoControlChars rejects control characters other than newline and tab.
func NoControlChars(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !strings.ContainsFunc(value, func(r rune) bool {
				return unicode.IsControl(r) && r != '\n' && r != '\t'
			})
		},
		Error: newError(field, "must not contain control characters", "validation.control_chars", nil),
	}
}

// SingleLine rejects line breaks.
func SingleLine(field, value string) Rule {
	return Rule{
		Check: func() bool { return !strings.ContainsAny(value, "\r\n") },
		Error: newError(field, "must be a single line", "validation.single_line", nil),
	}
}

// InvalidType reports a value of the wrong JSON type.
func InvalidType(field, expected string) Rule {
	return Rule{
		Check: func() bool { return false },
		Error: newError(field, "invalid type", "validation.invalid_type", map[string]any{"expected": expected}),
	}
}

// ValidEmail validates a bare address: parseable by net/mail, no display
// name, and a dotted domain without empty labels.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsEmail(value) },
		Error: newError(field, "must be a valid email address", "validation.email", nil),
	}
}

// IsEmail reports whether value is a bare, syntactically valid email address.
func IsEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return false
	}
	for label := range strings.SplitSeq(domain, ".") {
		if label == "" {
			return false
		}
	}
	return true
}

// IsMailbox reports whether value is an address with an optional display
// name, such as `NeonTJ <quotes@neontj.example>`. The address part must pass IsEmail.
func IsMailbox(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return IsEmail(addr.Address)
}

// HexColor validates a #RRGGBB color, case-insensitive.
func HexColor(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsHexColor(value) },
		Error: newError(field, "must be a hex color like #FF00AA", "validation.hex_color", nil),
	}
}

// IsHexColor reports whether value is a #RRGGBB color.
func IsHexColor(value string) bool {
	return hexColor.MatchString(value)
}

// MatchesRegex validates value against a compiled pattern.
func MatchesRegex(field, value string, re *regexp.Regexp, description string) Rule {
	return Rule{
		Check: func() bool { return re.MatchString(value) },
		Error: newError(field, fmt.Sprintf("must be a valid %s", description),
			"validation.regex_pattern", map[string]any{"description": description}),
	}
}

// InList validates that value is one of allowed.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool {
			for _, a := range allowed {
				if value == a {
					return true
				}
			}
			return false
		},
		Error: newError(field, fmt.Sprintf("must be one of: %v", allowed),
			"validation.in_list", map[string]any{"allowed_values": allowed}),
	}
}

// NonNegative validates value >= 0.
func NonNegative[T Numeric](field string, value T) Rule {
	return Rule{
		Check: func() bool { return value >= 0 },
		Error: newError(field, "must not be negative", "validation.non_negative", nil),
	}
}

// MaxItems validates that a collection has at most max elements.
func MaxItems(field string, count, max int) Rule {
	return Rule{
		Check: func() bool { return count <= max },
		Error: newError(field, fmt.Sprintf("must contain at most %d items", max),
			"validation.max_items", map[string]any{"max": max}),
	}
}
