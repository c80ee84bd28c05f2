package trip

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source used for defaults and overviews.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDeletionListener registers a listener for trip deletions.
func WithDeletionListener(l DeletionListener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, l)
	}
}

// SortKey orders a trip's activities.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByTime     SortKey = "time"
	SortByCost     SortKey = "cost"
	SortByCategory SortKey = "category"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortByDate, SortByTime, SortByCost, SortByCategory:
		return true
	}
	return false
}
