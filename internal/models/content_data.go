package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
)

// Keys of well-known template inputs inside content data.
const (
	KeyImageURL   = "imageUrl"
	KeyTitle      = "title"
	KeyWidth      = "width"
	KeyHeight     = "height"
	KeyCustomData = "customData"
)

// ContentData is the free-form data object of a content entry. The whole
// object is exposed as creative data; its customData member is additionally
// kept as raw JSON so callers can decode it into their own type.
//
// Numbers decode as float64.
type ContentData struct {
	fields   map[string]any
	metadata JSONObject
}

// NewContentData wraps decoded data fields and their customData member.
// fields is used as-is and must not be modified afterwards.
func NewContentData(fields map[string]any, metadata JSONObject) ContentData {
	return ContentData{fields: fields, metadata: metadata}
}

// Present reports whether the content carried a data object.
func (d ContentData) Present() bool { return d.fields != nil }

// Map returns a shallow copy of the full data object, empty when absent.
func (d ContentData) Map() map[string]any {
	if d.fields == nil {
		return map[string]any{}
	}
	return maps.Clone(d.fields)
}

// Value returns one creative data value.
func (d ContentData) Value(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Metadata returns the customData member.
func (d ContentData) Metadata() JSONObject { return d.metadata }

// MetadataValue returns one customData value.
func (d ContentData) MetadataValue(key string) (any, bool) { return d.metadata.Value(key) }

// MetadataJSON returns the raw customData bytes, nil when absent.
func (d ContentData) MetadataJSON() json.RawMessage { return d.metadata.JSON() }

// UnmarshalMetadata decodes customData into v.
func (d ContentData) UnmarshalMetadata(v any) error { return d.metadata.Decode(v) }

// ImageURL returns the imageUrl input rendered as a string.
func (d ContentData) ImageURL() (string, bool) { return d.stringValue(KeyImageURL) }

// Title returns the title input rendered as a string.
func (d ContentData) Title() (string, bool) { return d.stringValue(KeyTitle) }

// Width returns the width input when it is a whole number that fits an int.
func (d ContentData) Width() (int, bool) { return d.intValue(KeyWidth) }

// Height returns the height input when it is a whole number that fits an int.
func (d ContentData) Height() (int, bool) { return d.intValue(KeyHeight) }

func (d ContentData) stringValue(key string) (string, bool) {
	v, ok := d.fields[key]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

func (d ContentData) intValue(key string) (int, bool) {
	switch v := d.fields[key].(type) {
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
		if v != math.Trunc(v) || v < math.MinInt || v >= float64(math.MaxInt) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, strconv.IntSize)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
