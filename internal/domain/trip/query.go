package trip

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// List returns every trip.
func (s *Service) List() []Trip {
	return s.store.Trips()
}

// Get fetches a trip by ID.
func (s *Service) Get(id string) (*Trip, error) {
	t, ok := s.store.Trip(id)
	if !ok {
		return nil, ErrTripNotFound
	}
	return &t, nil
}

// SortedActivities returns a trip's activities in the requested order.
// Ties keep their stored order.
func (s *Service) SortedActivities(tripID string, key SortKey) ([]Activity, error) {
	if key == "" {
		key = SortByDate
	}
	if !key.Valid() {
		return nil, ErrInvalidInput
	}
	t, ok := s.store.Trip(tripID)
	if !ok {
		return nil, ErrTripNotFound
	}

	acts := append([]Activity{}, t.Activities...)
	sort.SliceStable(acts, func(i, j int) bool {
		a, b := acts[i], acts[j]
		switch key {
		case SortByTime:
			return a.Time < b.Time
		case SortByCost:
			return a.Cost.GreaterThan(b.Cost)
		case SortByCategory:
			return a.Category < b.Category
		default:
			return a.Date < b.Date
		}
	})
	return acts, nil
}

// Overview splits trips into upcoming and past.
type Overview struct {
	Upcoming []Trip `json:"upcoming"`
	Past     []Trip `json:"past"`
}

// Overview groups trips by whether their end date has passed.
func (s *Service) Overview() Overview {
	today := truncateDay(s.now())
	out := Overview{Upcoming: []Trip{}, Past: []Trip{}}
	for _, t := range s.store.Trips() {
		end, err := time.Parse(DateLayout, t.EndDate)
		if err == nil && end.Before(today) {
			out.Past = append(out.Past, t)
			continue
		}
		out.Upcoming = append(out.Upcoming, t)
	}
	return out
}

// CityCost is the spend of one trip, labelled by its city.
type CityCost struct {
	TripID string          `json:"tripId"`
	City   string          `json:"city"`
	Cost   decimal.Decimal `json:"cost"`
}

// Analytics summarizes spend across every trip.
type Analytics struct {
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TripCount   int             `json:"tripCount"`
	AverageCost decimal.Decimal `json:"averageCost"`
	PerTrip     []CityCost      `json:"perTrip"`
}

// Analytics computes totals across trips.
func (s *Service) Analytics() Analytics {
	trips := s.store.Trips()
	out := Analytics{
		TotalSpent:  decimal.Zero,
		TripCount:   len(trips),
		AverageCost: decimal.Zero,
		PerTrip:     make([]CityCost, 0, len(trips)),
	}
	for _, t := range trips {
		spent := t.TotalSpent()
		out.TotalSpent = out.TotalSpent.Add(spent)
		out.PerTrip = append(out.PerTrip, CityCost{
			TripID: t.ID,
			City:   CityName(t.Destination),
			Cost:   spent,
		})
	}
	if len(trips) > 0 {
		out.AverageCost = out.TotalSpent.Div(decimal.NewFromInt(int64(len(trips)))).Round(2)
	}
	return out
}

// CityName is the part of a destination before the first comma.
func CityName(destination string) string {
	city, _, _ := strings.Cut(destination, ",")
	return strings.TrimSpace(city)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
