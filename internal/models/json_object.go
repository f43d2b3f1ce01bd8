package models

import (
	"encoding/json"
	"maps"
	"slices"
)

// JSONObject is a free-form JSON object received from the engine. It keeps
// both a decoded map view and the original bytes so callers can either poke at
// individual values or unmarshal the whole thing into their own type.
//
// Numbers in the map view decode as float64. The zero value is an absent
// object.
type JSONObject struct {
	fields map[string]any
	raw    json.RawMessage
}

// NewJSONObject decodes raw, which must be a JSON object. The bytes are copied.
func NewJSONObject(raw []byte) (JSONObject, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return JSONObject{}, err
	}
	if fields == nil {
		// literal null
		return JSONObject{}, nil
	}
	return JSONObject{fields: fields, raw: slices.Clone(raw)}, nil
}

// Present reports whether an object was received.
func (o JSONObject) Present() bool { return o.raw != nil }

// Map returns a shallow copy of the decoded object. It is empty, never nil,
// when nothing was received.
func (o JSONObject) Map() map[string]any {
	if o.fields == nil {
		return map[string]any{}
	}
	return maps.Clone(o.fields)
}

// Value returns one top-level value.
func (o JSONObject) Value(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// JSON returns a copy of the original bytes, or nil when absent.
func (o JSONObject) JSON() json.RawMessage { return slices.Clone(o.raw) }

// String returns the original JSON text, or "" when absent.
func (o JSONObject) String() string { return string(o.raw) }

// Decode unmarshals the original bytes into v. Decoding an absent object
// leaves v untouched.
func (o JSONObject) Decode(v any) error {
	if o.raw == nil {
		return nil
	}
	return json.Unmarshal(o.raw, v)
}
