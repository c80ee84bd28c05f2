package trip

import "context"

// Store holds the authoritative trip list. Writes go through it so that
// local persistence and remote forwarding stay in one place.
type Store interface {
	Trips() []Trip
	Trip(id string) (Trip, bool)
	Upsert(ctx context.Context, t Trip) error
	Remove(ctx context.Context, id string) error
}

// DeletionListener is told when a trip has been deleted.
type DeletionListener interface {
	TripDeleted(tripID string)
}
