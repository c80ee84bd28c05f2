package session

import "github.com/rpggio/wandernest/internal/domain/trip"

// TripLookup resolves trips a client selects.
type TripLookup interface {
	Trip(id string) (trip.Trip, bool)
}
