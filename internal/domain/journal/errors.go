package journal

import "errors"

var (
	// ErrWriteNotFound indicates the journal entry doesn't exist.
	ErrWriteNotFound = errors.New("write not found")
	// ErrInvalidInput indicates invalid journal input.
	ErrInvalidInput = errors.New("invalid journal input")
)
