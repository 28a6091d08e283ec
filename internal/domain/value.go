package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a JSON scalar that may arrive as a string, a number, or null.
// The original text is kept so that malformed values can be told apart from
// absent ones.
type Value struct {
	raw    string
	valid  bool
	quoted bool
}

// StringValue returns a present Value holding s.
func StringValue(s string) Value {
	return Value{raw: s, valid: true, quoted: true}
}

// NumberValue returns a present Value holding f.
func NumberValue(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'f', -1, 64), valid: true}
}

// Present reports whether the value was supplied and is not the empty
// string. Whitespace counts as present, and malformed.
func (v Value) Present() bool {
	return v.valid && v.raw != ""
}

// IsZero reports whether the value was absent or null.
func (v Value) IsZero() bool {
	return !v.valid
}

// String returns the original text, or "" when absent.
func (v Value) String() string {
	return v.raw
}

// Float parses the value as a float64.
func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
}

// UnmarshalJSON accepts strings, numbers and null. Any other literal is kept
// verbatim and will fail to parse as a number later.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	*v = Value{raw: string(data), valid: true}
	return nil
}

// MarshalJSON writes the value back in the shape it arrived in.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	if v.quoted {
		return json.Marshal(v.raw)
	}
	return []byte(v.raw), nil
}
