package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdditionalOptionsAdd(t *testing.T) {
	o := NewAdditionalOptions()
	require.NoError(t, o.Add("bool", true))
	require.NoError(t, o.Add("str", "s"))
	require.NoError(t, o.Add("num", 1.5))
	require.NoError(t, o.Add("raw", json.RawMessage(`{ "a" : [1, 2] }`)))
	require.NoError(t, o.Add("nothing", nil))

	assert.Equal(t, []string{"bool", "str", "num", "raw", "nothing"}, o.Keys())
	assert.Equal(t, 5, o.Len())

	raw, ok := o.Get("raw")
	require.True(t, ok)
	assert.Equal(t, `{"a":[1,2]}`, string(raw))

	raw, ok = o.Get("nothing")
	require.True(t, ok)
	assert.Equal(t, "null", string(raw))

	_, ok = o.Get("missing")
	assert.False(t, ok)
}

func TestAdditionalOptionsRejectsDuplicatesAndBadJSON(t *testing.T) {
	o := NewAdditionalOptions()
	require.NoError(t, o.Add("k", 1))
	assert.ErrorIs(t, o.Add("k", 2), ErrDuplicateOption)
	assert.ErrorIs(t, o.Add("bad", json.RawMessage(`{`)), ErrInvalidOptionValue)
	assert.Error(t, o.Add("chan", make(chan int)))
	assert.Equal(t, []string{"k"}, o.Keys())
}

func TestAdditionalOptionsNilIsEmpty(t *testing.T) {
	var o *AdditionalOptions
	assert.Equal(t, 0, o.Len())
	assert.False(t, o.Has("k"))
	assert.Nil(t, o.Keys())

	assert.ErrorIs(t, o.Add("k", 1), ErrNilOptions)

	c := o.Clone()
	require.NotNil(t, c)
	assert.NoError(t, c.Add("k", 1))

	var zero AdditionalOptions
	require.NoError(t, zero.Add("k", 1))
	assert.True(t, zero.Has("k"))
}

func TestAdditionalOptionsCloneIsIndependent(t *testing.T) {
	o := NewAdditionalOptions()
	require.NoError(t, o.Add("a", 1))

	c := o.Clone()
	require.NoError(t, c.Add("b", 2))

	assert.Equal(t, []string{"a"}, o.Keys())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestAdditionalOptionsMarshalKeepsOrder(t *testing.T) {
	o := NewAdditionalOptions()
	require.NoError(t, o.Add("z", 1))
	require.NoError(t, o.Add("a", "x"))

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x"}`, string(b))
}
