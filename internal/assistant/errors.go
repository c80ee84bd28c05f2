package assistant

import "errors"

var (
	// ErrInvalidInput indicates an empty message or destination.
	ErrInvalidInput = errors.New("invalid assistant input")
)
