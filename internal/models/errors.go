package models

import "errors"

var (
	// ErrMissingDivName is returned when a placement is created without a div name.
	ErrMissingDivName = errors.New("placement div name is required")
	// ErrNoAdTypes is returned when a placement is created without any ad type.
	ErrNoAdTypes = errors.New("placement requires at least one ad type")
	// ErrEmptyPlacementList is returned when a builder is seeded with an empty placement list.
	ErrEmptyPlacementList = errors.New("placement list is empty")
	// ErrNilPlacement is returned when a nil placement is handed to the builder.
	ErrNilPlacement = errors.New("placement is nil")
	// ErrNoPlacements is returned by Build when no placement was added.
	ErrNoPlacements = errors.New("request has no placements")
	// ErrDuplicateOption is returned when an additional option key is added twice.
	ErrDuplicateOption = errors.New("additional option already set")
	// ErrNilOptions is returned when Add is called on a nil option set.
	ErrNilOptions = errors.New("additional options is nil")
	// ErrInvalidOptionValue is returned when an additional option value is not valid JSON.
	ErrInvalidOptionValue = errors.New("additional option value is not valid JSON")
)
