package userdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickwarner/adzerk-sdk/internal/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "user.json"))
	require.NoError(t, err)

	r, err := DecodeUser(data)
	require.NoError(t, err)

	assert.Equal(t, testUserKey, r.Key)
	assert.False(t, r.IsNew)
	assert.False(t, r.OptOut)
	assert.True(t, r.HasInterest("cats"))
	assert.False(t, r.HasInterest("birds"))
	assert.Equal(t, []int{18209784}, r.BlockedItems.Creatives)

	age, ok := r.CustomProperty("age")
	require.True(t, ok)
	assert.Equal(t, float64(28), age)
	gender, _ := r.CustomProperty("gender")
	assert.Equal(t, "male", gender)
	assert.JSONEq(t, `{"age":28,"gender":"male"}`, r.CustomProperties.String())

	var custom struct {
		Age    int    `json:"age"`
		Gender string `json:"gender"`
	}
	require.NoError(t, r.CustomProperties.Decode(&custom))
	assert.Equal(t, 28, custom.Age)

	assert.Equal(t, map[int][]int64{12637354: {1603579628, 1603579700}}, r.FlightViewTimes())
}

func TestDecodeUserCustomShape(t *testing.T) {
	_, err := DecodeUser([]byte(`{"key":"k","custom":"male"}`))
	assert.ErrorIs(t, err, codec.ErrUnexpectedShape)

	r, err := DecodeUser([]byte(`{"key":"k","custom":null}`))
	require.NoError(t, err)
	assert.False(t, r.CustomProperties.Present())
	assert.Empty(t, r.CustomProperties.Map())
	assert.Empty(t, r.FlightViewTimes())
}

func TestDecodeUserErrors(t *testing.T) {
	_, err := DecodeUser([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeUser([]byte(`{"flightViewTimes":{"abc":[1]}}`))
	assert.Error(t, err)
}

func TestEncodeCustomProperties(t *testing.T) {
	b, err := EncodeCustomProperties(map[string]any{"age": 28, "gender": "male"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":28,"gender":"male"}`, string(b))

	b, err = EncodeCustomProperties(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
