package trip

import "errors"

var (
	// ErrTripNotFound indicates the trip doesn't exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrActivityNotFound indicates the activity doesn't exist on the trip.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidInput indicates invalid trip input.
	ErrInvalidInput = errors.New("invalid trip input")
)
