package userdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/patrickwarner/adzerk-sdk/internal/codec"
	"github.com/patrickwarner/adzerk-sdk/internal/models"

	"github.com/buger/jsonparser"
)

// BlockedItems lists what the user asked never to see again.
type BlockedItems struct {
	Advertisers []int `json:"advertisers"`
	Campaigns   []int `json:"campaigns"`
	Creatives   []int `json:"creatives"`
	Flights     []int `json:"flights"`
}

// Record is a decoded UserDB user record.
type Record struct {
	Key          string
	IsNew        bool
	OptOut       bool
	Interests    []string
	BlockedItems BlockedItems
	// CustomProperties holds the custom properties object.
	CustomProperties models.JSONObject
	flightViewTimes  map[int][]int64
}

type recordWire struct {
	Key             string             `json:"key"`
	IsNew           bool               `json:"isNew"`
	OptOut          bool               `json:"optOut"`
	Interests       []string           `json:"interests"`
	BlockedItems    BlockedItems       `json:"blockedItems"`
	FlightViewTimes map[string][]int64 `json:"flightViewTimes"`
}

// DecodeUser decodes the body returned by the read endpoint. The custom
// member must be an object or null.
func DecodeUser(data []byte) (*Record, error) {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}

	r := &Record{
		Key:          w.Key,
		IsNew:        w.IsNew,
		OptOut:       w.OptOut,
		Interests:    w.Interests,
		BlockedItems: w.BlockedItems,
	}

	custom, vt, _, err := jsonparser.Get(data, "custom")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError), vt == jsonparser.Null:
	case err != nil:
		return nil, fmt.Errorf("decode user record: %w", err)
	case vt != jsonparser.Object:
		return nil, codec.NewShapeError("custom", "object", vt)
	default:
		if r.CustomProperties, err = models.NewJSONObject(slices.Clone(custom)); err != nil {
			return nil, fmt.Errorf("decode user record custom: %w", err)
		}
	}

	if len(w.FlightViewTimes) > 0 {
		r.flightViewTimes = make(map[int][]int64, len(w.FlightViewTimes))
		for k, ts := range w.FlightViewTimes {
			id, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("decode user record: flight id %q: %w", k, err)
			}
			r.flightViewTimes[id] = ts
		}
	}
	return r, nil
}

// HasInterest reports whether interest is in the record.
func (r *Record) HasInterest(interest string) bool {
	return slices.Contains(r.Interests, interest)
}

// CustomProperty returns one custom property. Numbers are float64.
func (r *Record) CustomProperty(key string) (any, bool) {
	return r.CustomProperties.Value(key)
}

// FlightViewTimes returns a copy of the view history the engine holds.
func (r *Record) FlightViewTimes() map[int][]int64 {
	out := make(map[int][]int64, len(r.flightViewTimes))
	for k, v := range r.flightViewTimes {
		out[k] = slices.Clone(v)
	}
	return out
}

// EncodeCustomProperties renders the body for the custom properties endpoint.
func EncodeCustomProperties(props map[string]any) ([]byte, error) {
	if props == nil {
		props = map[string]any{}
	}
	return json.Marshal(props)
}
