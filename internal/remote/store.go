// Package remote adapts hosted document databases holding the trips
// collection.
package remote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rpggio/wandernest/internal/domain/trip"
)

// CollectionName is the collection every store reads and writes.
const CollectionName = "trips"

var (
	// ErrNotConnected indicates the store has been closed.
	ErrNotConnected = errors.New("remote store not connected")
	// ErrInvalidDescriptor indicates the connection descriptor is malformed.
	ErrInvalidDescriptor = errors.New("invalid remote descriptor")
	// ErrConnect indicates the store could not be reached.
	ErrConnect = errors.New("remote store connection failed")
)

// SnapshotFunc receives the full current collection.
type SnapshotFunc func(trips []trip.Trip)

// Unsubscribe stops a subscription. Calling it more than once is safe.
type Unsubscribe func()

// Store is a remote trips collection keyed by trip ID. Every write replaces
// the whole document.
type Store interface {
	// FetchAll reads the whole collection once.
	FetchAll(ctx context.Context) ([]trip.Trip, error)
	Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error)
	Upsert(ctx context.Context, t trip.Trip) error
	Remove(ctx context.Context, id string) error
	// BulkUpsert writes every trip, continuing past individual failures.
	// A partial failure returns a *BulkError naming the trips not saved.
	BulkUpsert(ctx context.Context, trips []trip.Trip) error
	Close(ctx context.Context) error
}

// BulkError reports the trips a bulk write could not save, keyed by trip ID.
type BulkError struct {
	Failures map[string]error
}

func (e *BulkError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for id := range e.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("saving %d of the trips failed: %s", len(ids), strings.Join(ids, ", "))
}

func (e *BulkError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		out = append(out, err)
	}
	return out
}

// bulkUpsert writes trips one at a time. Failures are collected, not
// rolled back.
func bulkUpsert(ctx context.Context, s Store, trips []trip.Trip) error {
	failures := make(map[string]error)
	for _, t := range trips {
		if err := s.Upsert(ctx, t); err != nil {
			failures[t.ID] = err
		}
	}
	if len(failures) > 0 {
		return &BulkError{Failures: failures}
	}
	return nil
}
