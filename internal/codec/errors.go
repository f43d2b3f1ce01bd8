package codec

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

var (
	// ErrUnexpectedShape marks a JSON value of the wrong kind, such as an
	// array where an object was expected.
	ErrUnexpectedShape = errors.New("unexpected JSON shape")
	// ErrMalformedDecision marks a decision whose fields could not be decoded.
	ErrMalformedDecision = errors.New("malformed decision")
	// ErrFlattenConfig marks an invalid flattening registration or target.
	ErrFlattenConfig = errors.New("invalid flatten configuration")
	// ErrOptionCollision is returned when an additional option has the same
	// key as a first-class request field.
	ErrOptionCollision = errors.New("additional option collides with request field")
	// ErrInvalidJSON is returned when a response is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNilRequest is returned when Encode is given a nil request.
	ErrNilRequest = errors.New("request is nil")
)

// ShapeError reports where in a document a value had the wrong kind.
type ShapeError struct {
	// Path is a dotted path from the document root, e.g. decisions.div1[0].contents[0].data.
	Path     string
	Expected string
	Got      string
}

// NewShapeError builds a ShapeError for a value of kind got found at path.
func NewShapeError(path, expected string, got jsonparser.ValueType) *ShapeError {
	return &ShapeError{Path: path, Expected: expected, Got: kindName(got)}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s at %s: expected %s, got %s", ErrUnexpectedShape, e.Path, e.Expected, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrUnexpectedShape }

// DecodeError reports a decision that could not be decoded.
type DecodeError struct {
	Placement string
	Index     int
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at decisions.%s[%d]: %v", ErrMalformedDecision, e.Placement, e.Index, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrMalformedDecision, e.Err} }

// kindOf returns the JSON kind of raw, or Unknown when it is not valid JSON.
func kindOf(raw []byte) jsonparser.ValueType {
	if len(raw) == 0 {
		return jsonparser.NotExist
	}
	_, vt, _, err := jsonparser.Get(raw)
	if err != nil {
		return jsonparser.Unknown
	}
	return vt
}

func kindName(vt jsonparser.ValueType) string {
	switch vt {
	case jsonparser.Object:
		return "object"
	case jsonparser.Array:
		return "array"
	case jsonparser.String:
		return "string"
	case jsonparser.Number:
		return "number"
	case jsonparser.Boolean:
		return "boolean"
	case jsonparser.Null:
		return "null"
	case jsonparser.NotExist:
		return "nothing"
	default:
		return "invalid JSON"
	}
}

// absent reports whether a raw field was missing or null.
func absent(raw []byte) bool {
	vt := kindOf(raw)
	return vt == jsonparser.NotExist || vt == jsonparser.Null
}
