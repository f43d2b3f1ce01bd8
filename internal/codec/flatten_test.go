package codec

import (
	"encoding/json"
	"testing"

	"github.com/patrickwarner/adzerk-sdk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionsHolder struct {
	Name    string                    `json:"name"`
	Options *models.AdditionalOptions `json:"options"`
}

func (h optionsHolder) ExtraFields() *models.AdditionalOptions { return h.Options }

type valueOptionsHolder struct {
	Name  string
	Extra models.AdditionalOptions `json:"-"`
}

func (h *valueOptionsHolder) ExtraFields() *models.AdditionalOptions { return &h.Extra }

type omittingHolder struct {
	Name    string                    `json:"name,omitempty"`
	Tags    []string                  `json:"tags,omitempty"`
	Skipped string                    `json:"-"`
	Options *models.AdditionalOptions `json:"opts"`
	hidden  string
}

func (h omittingHolder) ExtraFields() *models.AdditionalOptions { return h.Options }

type listedHolder struct {
	Options *models.AdditionalOptions
}

func (h listedHolder) ExtraFields() *models.AdditionalOptions { return h.Options }
func (listedHolder) MarshalJSON() ([]byte, error)             { return []byte(`{}`), nil }
func (listedHolder) JSONFields() []string                     { return []string{"wire"} }

type wrongFieldHolder struct {
	Options map[string]string `json:"options"`
}

func (wrongFieldHolder) ExtraFields() *models.AdditionalOptions { return nil }

type plainStruct struct {
	Options *models.AdditionalOptions `json:"options"`
}

type sliceFlattener []int

func (sliceFlattener) ExtraFields() *models.AdditionalOptions { return nil }

func newOptions(t *testing.T, kv ...any) *models.AdditionalOptions {
	t.Helper()
	o := models.NewAdditionalOptions()
	for i := 0; i < len(kv); i += 2 {
		require.NoError(t, o.Add(kv[i].(string), kv[i+1]))
	}
	return o
}

func TestRegisterValidation(t *testing.T) {
	enc := NewFlattenEncoder()

	assert.NoError(t, enc.Register(optionsHolder{}, "Options"))
	assert.NoError(t, enc.Register(&valueOptionsHolder{}, "Extra"))

	tests := []struct {
		name   string
		sample any
		field  string
	}{
		{name: "missing field", sample: optionsHolder{}, field: "Nope"},
		{name: "wrong field type", sample: wrongFieldHolder{}, field: "Options"},
		{name: "not a flattener", sample: plainStruct{}, field: "Options"},
		{name: "not a struct", sample: sliceFlattener{}, field: "Options"},
		{name: "nil", sample: nil, field: "Options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, enc.Register(tt.sample, tt.field), ErrFlattenConfig)
		})
	}
}

func TestEncodeFlattensOptions(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(optionsHolder{}, "Options"))

	h := optionsHolder{
		Name: "div1",
		Options: newOptions(t,
			"boolKey", true,
			"objKey", map[string]any{"stringKey": "string1"},
			"rawKey", json.RawMessage(`[1, 2, 3]`),
		),
	}
	b, err := enc.Encode(h)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"div1","boolKey":true,"objKey":{"stringKey":"string1"},"rawKey":[1,2,3]}`, string(b))
	assert.NotContains(t, string(b), `"options"`)
	assert.Equal(t, `{"name":"div1","boolKey":true,"objKey":{"stringKey":"string1"},"rawKey":[1,2,3]}`, string(b),
		"options follow the struct fields in insertion order")
}

func TestEncodeStripsNilContainer(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(optionsHolder{}, "Options"))

	b, err := enc.Encode(optionsHolder{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(b))
}

func TestEncodeValueContainerAndPointer(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(&valueOptionsHolder{}, "Extra"))

	h := &valueOptionsHolder{Name: "x"}
	require.NoError(t, h.Extra.Add("k", 1))

	b, err := enc.Encode(h)
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"x","k":1}`, string(b))
}

func TestEncodeRegisteredTypeByValueWithPointerReceiver(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(&valueOptionsHolder{}, "Extra"))

	_, err := enc.Encode(valueOptionsHolder{Name: "x"})
	assert.ErrorIs(t, err, ErrFlattenConfig)
}

func TestEncodeCollision(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(optionsHolder{}, "Options"))

	_, err := enc.Encode(optionsHolder{Name: "x", Options: newOptions(t, "name", "other")})
	assert.ErrorIs(t, err, ErrOptionCollision)
}

func TestEncodeReservedKeys(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(omittingHolder{}, "Options"))

	tests := []struct {
		name    string
		key     string
		collide bool
	}{
		{name: "omitted field", key: "name", collide: true},
		{name: "omitted slice field", key: "tags", collide: true},
		{name: "container json key", key: "opts", collide: true},
		{name: "container field name", key: "Options", collide: true},
		{name: "skipped field", key: "Skipped", collide: false},
		{name: "unexported field", key: "hidden", collide: false},
		{name: "free key", key: "other", collide: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(omittingHolder{Options: newOptions(t, tt.key, "x")})
			if tt.collide {
				assert.ErrorIs(t, err, ErrOptionCollision)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncodeReservedKeysFromFieldLister(t *testing.T) {
	enc := NewFlattenEncoder()
	require.NoError(t, enc.Register(listedHolder{}, "Options"))

	_, err := enc.Encode(listedHolder{Options: newOptions(t, "wire", 1)})
	assert.ErrorIs(t, err, ErrOptionCollision)

	b, err := enc.Encode(listedHolder{Options: newOptions(t, "free", 1)})
	require.NoError(t, err)
	assert.Equal(t, `{"free":1}`, string(b))
}

func TestEncodeUnregisteredValues(t *testing.T) {
	enc := NewFlattenEncoder()

	b, err := enc.Encode(plainStruct{})
	require.NoError(t, err)
	assert.Equal(t, `{"options":null}`, string(b))

	// A Flattener must be registered before it can be encoded.
	_, err = enc.Encode(optionsHolder{Name: "x", Options: newOptions(t, "k", "v")})
	assert.ErrorIs(t, err, ErrFlattenConfig)

	_, err = enc.Encode(sliceFlattener{1})
	assert.ErrorIs(t, err, ErrFlattenConfig)
}

func TestSpliceIntoEmptyObject(t *testing.T) {
	b, err := splice([]byte(`{}`), newOptions(t, "a", 1, "b", "two"), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"two"}`, string(b))
}
