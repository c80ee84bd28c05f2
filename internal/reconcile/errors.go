package reconcile

import "errors"

var (
	// ErrNotConnected indicates the operation needs a remote store.
	ErrNotConnected = errors.New("not connected to a remote store")
	// ErrNotLoaded indicates Load has not run yet.
	ErrNotLoaded = errors.New("trips not loaded")
)
