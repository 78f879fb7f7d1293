package quote

import (
	"bytes"
	"encoding/json"

	"github.com/neontj/signquote/pkg/validator"
)

// object decodes the fields of one JSON object lazily so that a wrong type
// in one field is reported without hiding violations in the others.
type object struct {
	path   string
	fields map[string]json.RawMessage
	errs   *validator.ValidationErrors
}

func (o *object) name(field string) string {
	if o.path == "" {
		return field
	}
	return o.path + "." + field
}

// check runs rules and records their failures in order.
func (o *object) check(rules ...validator.Rule) {
	o.errs.Merge(validator.Apply(rules...))
}

// lookup returns the value of the first alias that is present and not null.
// Violations are always reported under the first (canonical) name.
func (o *object) lookup(aliases ...string) (json.RawMessage, bool) {
	for _, alias := range aliases {
		if raw, ok := o.fields[alias]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

// String decodes a string field. ok is false when the value had the wrong type.
func (o *object) String(aliases ...string) (value string, ok bool) {
	raw, present := o.lookup(aliases...)
	if !present {
		return "", true
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		o.check(validator.InvalidType(o.name(aliases[0]), "string"))
		return "", false
	}
	return value, true
}

// Bool decodes a boolean field.
func (o *object) Bool(field string) (value, present, ok bool) {
	raw, present := o.lookup(field)
	if !present {
		return false, false, true
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		o.check(validator.InvalidType(o.name(field), "boolean"))
		return false, true, false
	}
	return value, true, true
}

// Number decodes a numeric field. A nil result means absent or invalid.
func (o *object) Number(field string) *float64 {
	raw, present := o.lookup(field)
	if !present {
		return nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		o.check(validator.InvalidType(o.name(field), "number"))
		return nil
	}
	return &value
}

// Array decodes an array field into its raw elements.
func (o *object) Array(aliases ...string) ([]json.RawMessage, bool) {
	raw, present := o.lookup(aliases...)
	if !present {
		return nil, true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		o.check(validator.InvalidType(o.name(aliases[0]), "array"))
		return nil, false
	}
	return items, true
}

// Object decodes a nested object field. An absent field yields an empty
// object so that its required members are still reported.
func (o *object) Object(field string) (*object, bool) {
	child := &object{path: o.name(field), fields: map[string]json.RawMessage{}, errs: o.errs}
	raw, present := o.lookup(field)
	if !present {
		return child, true
	}
	if raw = bytes.TrimSpace(raw); len(raw) == 0 || raw[0] != '{' {
		o.check(validator.InvalidType(o.name(field), "object"))
		return nil, false
	}
	if err := json.Unmarshal(raw, &child.fields); err != nil {
		o.check(validator.InvalidType(o.name(field), "object"))
		return nil, false
	}
	return child, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
