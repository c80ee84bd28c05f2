package reconcile

import (
	"context"
	"encoding/json"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/remote"
)

// Cache is the durable local copy of trips and the remote descriptor.
type Cache interface {
	LoadTrips(ctx context.Context) ([]trip.Trip, error)
	SaveTrips(ctx context.Context, trips []trip.Trip) error
	RemoteDescriptor(ctx context.Context) (json.RawMessage, error)
	SaveRemoteDescriptor(ctx context.Context, raw json.RawMessage) error
	ClearRemoteDescriptor(ctx context.Context) error
}

// Dialer opens remote stores.
type Dialer interface {
	Dial(ctx context.Context, d remote.Descriptor) (remote.Store, error)
}

// Journal records write status.
type Journal interface {
	Begin(ctx context.Context, tripID string, op journal.Op, remote bool) (*journal.Write, error)
	Confirm(ctx context.Context, id string) error
	Fail(ctx context.Context, id string, cause error) error
}
