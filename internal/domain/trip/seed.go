package trip

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/default_trips.json
var defaultTripsJSON []byte

// DefaultTrips returns the built-in sample trips used when nothing has been
// stored yet. Each call returns a fresh copy.
func DefaultTrips() []Trip {
	trips, err := decodeTrips(defaultTripsJSON)
	if err != nil {
		panic(fmt.Sprintf("decoding built-in trips: %v", err))
	}
	return trips
}

// DecodeTrips parses a serialized trip collection.
func DecodeTrips(data []byte) ([]Trip, error) {
	return decodeTrips(data)
}

// EncodeTrips serializes a trip collection.
func EncodeTrips(trips []Trip) ([]byte, error) {
	if trips == nil {
		trips = []Trip{}
	}
	data, err := json.Marshal(trips)
	if err != nil {
		return nil, fmt.Errorf("encoding trips: %w", err)
	}
	return data, nil
}

func decodeTrips(data []byte) ([]Trip, error) {
	var trips []Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, fmt.Errorf("decoding trips: %w", err)
	}
	return trips, nil
}
