package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// AdditionalOptions holds extra top-level request fields that have no
// first-class setter. Entries keep insertion order and are written at the
// root of the encoded request, never nested under their own key.
//
// The zero value is a valid empty option set. A nil pointer reads as empty,
// but Add on it fails with ErrNilOptions.
type AdditionalOptions struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewAdditionalOptions returns an empty option set.
func NewAdditionalOptions() *AdditionalOptions {
	return &AdditionalOptions{values: make(map[string]json.RawMessage)}
}

// Add stores value under key. json.RawMessage values are validated and kept
// as-is; anything else is marshaled with encoding/json. A nil value is stored
// as JSON null. Adding an existing key fails with ErrDuplicateOption.
func (o *AdditionalOptions) Add(key string, value any) error {
	if o == nil {
		return ErrNilOptions
	}
	if _, exists := o.values[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateOption, key)
	}
	raw, err := toRaw(value)
	if err != nil {
		return fmt.Errorf("additional option %q: %w", key, err)
	}
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	o.keys = append(o.keys, key)
	o.values[key] = raw
	return nil
}

// Get returns the raw JSON stored under key.
func (o *AdditionalOptions) Get(key string) (json.RawMessage, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// Has reports whether key is present.
func (o *AdditionalOptions) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Keys returns the option keys in insertion order.
func (o *AdditionalOptions) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Len returns the number of stored options.
func (o *AdditionalOptions) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Each calls fn for every option in insertion order.
func (o *AdditionalOptions) Each(fn func(key string, value json.RawMessage)) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		fn(k, o.values[k])
	}
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (o *AdditionalOptions) Clone() *AdditionalOptions {
	c := NewAdditionalOptions()
	o.Each(func(k string, v json.RawMessage) {
		c.keys = append(c.keys, k)
		c.values[k] = slices.Clone(v)
	})
	return c
}

// MarshalJSON renders the options as a standalone object in insertion order.
func (o *AdditionalOptions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	o.Each(func(k string, v json.RawMessage) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var key []byte
		if key, err = json.Marshal(k); err != nil {
			return
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(v)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toRaw(value any) (json.RawMessage, error) {
	switch v := value.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case json.RawMessage:
		if !json.Valid(v) {
			return nil, ErrInvalidOptionValue
		}
		return compact(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func compact(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
