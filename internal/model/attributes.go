package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// AttributeKind tags the concrete type held by an AttributeValue.
type AttributeKind uint8

const (
	AttrString AttributeKind = iota + 1
	AttrNumber
	AttrBool
)

// AttributeValue is a tagged string | number | boolean.
type AttributeValue struct {
	Kind AttributeKind
	Str  string
	Num  decimal.Decimal
	Bool bool
}

func StringValue(s string) AttributeValue { return AttributeValue{Kind: AttrString, Str: s} }

func NumberValue(d decimal.Decimal) AttributeValue { return AttributeValue{Kind: AttrNumber, Num: d} }

func BoolValue(b bool) AttributeValue { return AttributeValue{Kind: AttrBool, Bool: b} }

// Equal compares kind and value; numbers are compared numerically so 16 and
// 16.0 are the same value.
func (v AttributeValue) Equal(o AttributeValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case AttrString:
		return v.Str == o.Str
	case AttrNumber:
		return v.Num.Equal(o.Num)
	case AttrBool:
		return v.Bool == o.Bool
	}
	return false
}

func (v AttributeValue) String() string {
	switch v.Kind {
	case AttrString:
		return v.Str
	case AttrNumber:
		return v.Num.String()
	case AttrBool:
		return fmt.Sprintf("%t", v.Bool)
	}
	return ""
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttrString:
		return json.Marshal(v.Str)
	case AttrNumber:
		return []byte(v.Num.String()), nil
	case AttrBool:
		return json.Marshal(v.Bool)
	}
	return nil, errors.New("attributes: value has no kind")
}

func (v *AttributeValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return errors.New("attributes: null values are not allowed")
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*v = BoolValue(b[0] == 't')
	case b[0] == '{' || b[0] == '[':
		return errors.New("attributes: nested values are not allowed")
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("attributes: invalid number %s: %w", b, err)
		}
		*v = NumberValue(d)
	}
	return nil
}

// Attributes is a variation's attribute map, keyed by metadata-field name.
// It is persisted as canonical JSON (keys sorted) and always compared after
// decoding, never by its encoded form.
type Attributes map[string]AttributeValue

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports key-by-key equality; insertion order is irrelevant.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !v.Equal(w) {
			return false
		}
	}
	return true
}

// Encode renders the canonical JSON form used at the storage boundary.
func (a Attributes) Encode() ([]byte, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	// encoding/json emits map keys sorted, which makes the form canonical.
	return json.Marshal(map[string]AttributeValue(a))
}

// DecodeAttributes parses an encoded attribute map.
func DecodeAttributes(raw []byte) (Attributes, error) {
	a := Attributes{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(raw, (*map[string]AttributeValue)(&a)); err != nil {
		return nil, fmt.Errorf("attributes: decode: %w", err)
	}
	return a, nil
}

// GormDataType makes AutoMigrate create a jsonb column.
func (Attributes) GormDataType() string { return "jsonb" }

func (a Attributes) Value() (driver.Value, error) {
	b, err := a.Encode()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Attributes) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("attributes: cannot scan %T", src)
	}
	decoded, err := DecodeAttributes(raw)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
