package codec

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/patrickwarner/adzerk-sdk/internal/models"

	"github.com/buger/jsonparser"
)

// DecodeMatchedPoints decodes a matchedPoints array. The engine sends
// coordinates as decimal strings, e.g. {"lat":"35.995063","lon":"-78.908187"}.
// Both must parse as float64.
func DecodeMatchedPoints(raw []byte) ([]models.MatchedPoint, error) {
	return decodeMatchedPoints(raw, "matchedPoints")
}

func decodeMatchedPoints(raw []byte, path string) ([]models.MatchedPoint, error) {
	if absent(raw) {
		return nil, nil
	}
	if vt := kindOf(raw); vt != jsonparser.Array {
		return nil, NewShapeError(path, "array", vt)
	}

	points := []models.MatchedPoint{}
	var (
		elemErr error
		idx     int
	)
	_, err := jsonparser.ArrayEach(raw, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
		if elemErr != nil {
			return
		}
		elemPath := fmt.Sprintf("%s[%d]", path, idx)
		idx++
		if vt != jsonparser.Object {
			elemErr = NewShapeError(elemPath, "object", vt)
			return
		}
		lat, err := coordinate(value, "lat", elemPath)
		if err != nil {
			elemErr = err
			return
		}
		lon, err := coordinate(value, "lon", elemPath)
		if err != nil {
			elemErr = err
			return
		}
		points = append(points, models.MatchedPoint{Lat: lat, Lon: lon})
	})
	if elemErr != nil {
		return nil, elemErr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

func coordinate(point []byte, key, path string) (float64, error) {
	value, vt, _, err := jsonparser.Get(point, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return 0, fmt.Errorf("%s: missing %s", path, key)
	}
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	if vt != jsonparser.String {
		return 0, NewShapeError(path+"."+key, "string", vt)
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %q is not a number", path, key, s)
	}
	return f, nil
}
