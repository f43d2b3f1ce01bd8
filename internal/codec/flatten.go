package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/patrickwarner/adzerk-sdk/internal/models"

	"github.com/buger/jsonparser"
)

// Flattener is implemented by types whose additional options are written at
// the root of their JSON encoding.
type Flattener interface {
	ExtraFields() *models.AdditionalOptions
}

var (
	optionsType    = reflect.TypeOf(models.AdditionalOptions{})
	optionsPtrType = reflect.TypeOf(&models.AdditionalOptions{})
)

// FieldLister is implemented by Flatteners whose JSON encoding is not derived
// from their own struct tags, for example because they marshal through a
// wire type. JSONFields lists every root key the encoding can contain,
// including fields that are currently omitted.
type FieldLister interface {
	JSONFields() []string
}

// FlattenEncoder marshals values with encoding/json and then lifts their
// additional options to the top level of the resulting object.
//
// Types are registered together with the struct field holding their options.
// Registration is validated up front, and the container field's own JSON key
// is removed from the output so it never appears nested. Register every type
// before calling Encode from multiple goroutines.
type FlattenEncoder struct {
	registrations map[reflect.Type]registration
}

type registration struct {
	// container is the JSON key of the options field, "" when never emitted.
	container string
	// reserved holds every root key an option may not use.
	reserved map[string]struct{}
}

// NewFlattenEncoder returns an encoder with no registrations.
func NewFlattenEncoder() *FlattenEncoder {
	return &FlattenEncoder{registrations: make(map[reflect.Type]registration)}
}

// Register declares that sample's type keeps its additional options in the
// struct field named field. sample must be a struct or a pointer to one,
// implement Flattener, and the field must be of type models.AdditionalOptions
// or *models.AdditionalOptions.
//
// The type's root keys are reserved: those of its exported struct fields, or
// the list returned by JSONFields when it implements FieldLister, plus the
// container field's own names. Options using a reserved key fail to encode
// whether or not the field is present in a given value.
func (e *FlattenEncoder) Register(sample any, field string) error {
	if _, ok := sample.(Flattener); !ok {
		return fmt.Errorf("%w: %T does not implement Flattener", ErrFlattenConfig, sample)
	}
	t := structType(reflect.TypeOf(sample))
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", ErrFlattenConfig, sample)
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return fmt.Errorf("%w: %s has no field %q", ErrFlattenConfig, t, field)
	}
	if sf.Type != optionsType && sf.Type != optionsPtrType {
		return fmt.Errorf("%w: field %s.%s has type %s, want models.AdditionalOptions",
			ErrFlattenConfig, t, field, sf.Type)
	}

	reg := registration{container: jsonKey(sf), reserved: make(map[string]struct{})}
	if lister, ok := sample.(FieldLister); ok {
		for _, k := range lister.JSONFields() {
			reg.reserved[k] = struct{}{}
		}
	} else {
		for _, k := range structKeys(t) {
			reg.reserved[k] = struct{}{}
		}
	}
	reg.reserved[sf.Name] = struct{}{}
	if reg.container != "" {
		reg.reserved[reg.container] = struct{}{}
	}
	e.registrations[t] = reg
	return nil
}

// Encode marshals v. Registered values get their extra fields spliced into
// the top-level object in insertion order. An extra field whose key is
// reserved by the type, or already present in the output, fails with
// ErrOptionCollision. A Flattener whose type was never registered fails with
// ErrFlattenConfig.
func (e *FlattenEncoder) Encode(v any) ([]byte, error) {
	f, isFlattener := v.(Flattener)
	reg, registered := e.registrations[structType(reflect.TypeOf(v))]
	switch {
	case registered && !isFlattener:
		return nil, fmt.Errorf("%w: %T does not implement Flattener", ErrFlattenConfig, v)
	case isFlattener && !registered:
		return nil, fmt.Errorf("%w: %T is not registered", ErrFlattenConfig, v)
	}

	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !isFlattener {
		return base, nil
	}
	if reg.container != "" {
		if _, _, _, err := jsonparser.Get(base, reg.container); err == nil {
			base = jsonparser.Delete(base, reg.container)
		}
	}
	return splice(base, f.ExtraFields(), reg.reserved)
}

// splice appends opts to the JSON object base. Keys in reserved or already
// in base are collisions.
func splice(base []byte, opts *models.AdditionalOptions, reserved map[string]struct{}) ([]byte, error) {
	if vt := kindOf(base); vt != jsonparser.Object {
		return nil, fmt.Errorf("%w: flatten target encodes as %s, want object", ErrFlattenConfig, kindName(vt))
	}
	if opts.Len() == 0 {
		return base, nil
	}

	existing := make(map[string]struct{})
	if err := jsonparser.ObjectEach(base, func(k, _ []byte, _ jsonparser.ValueType, _ int) error {
		existing[string(k)] = struct{}{}
		return nil
	}); err != nil {
		return nil, err
	}
	for _, k := range opts.Keys() {
		_, taken := reserved[k]
		if _, dup := existing[k]; dup || taken {
			return nil, fmt.Errorf("%w: %q", ErrOptionCollision, k)
		}
	}

	body := bytes.TrimRight(base, " \t\r\n")
	var buf bytes.Buffer
	buf.Grow(len(body) + 64)
	buf.Write(body[:len(body)-1])
	needComma := len(existing) > 0
	var err error
	opts.Each(func(k string, raw json.RawMessage) {
		if err != nil {
			return
		}
		var name []byte
		if name, err = json.Marshal(k); err != nil {
			return
		}
		if needComma {
			buf.WriteByte(',')
		}
		needComma = true
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(raw)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// structKeys returns the JSON keys encoding/json uses for t's exported
// fields, including those promoted from embedded structs.
func structKeys(t reflect.Type) []string {
	var keys []string
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if sf.Anonymous && name == "" && structType(sf.Type).Kind() == reflect.Struct {
			continue
		}
		if k := jsonKey(sf); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func structType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// jsonKey returns the name encoding/json uses for sf, or "" when the field
// is never emitted.
func jsonKey(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch {
	case name == "-":
		return ""
	case name != "":
		return name
	default:
		return sf.Name
	}
}
