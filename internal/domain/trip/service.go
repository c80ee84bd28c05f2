package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service handles trip, activity, and budget operations.
type Service struct {
	store     Store
	listeners []DeletionListener
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new trip service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines trip creation inputs. Zero values select defaults.
type CreateRequest struct {
	Destination      string
	StartDate        string
	EndDate          string
	TotalBudget      decimal.Decimal
	Image            string
	BudgetCategories []BudgetCategory
	Activities       []Activity
}

// CreateTrip creates a new trip, filling defaults for anything unset.
func (s *Service) CreateTrip(ctx context.Context, req CreateRequest) (*Trip, error) {
	now := s.now()

	t := Trip{
		ID:          s.newTripID(now),
		Destination: strings.TrimSpace(req.Destination),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
		Image:       req.Image,
		Activities:  []Activity{},
	}
	if t.Destination == "" {
		t.Destination = defaultDestination
	}
	if t.TotalBudget.IsZero() {
		t.TotalBudget = defaultTotalBudget
	}
	if t.StartDate == "" {
		t.StartDate = now.Format(DateLayout)
	}
	if t.EndDate == "" {
		t.EndDate = now.AddDate(0, 0, defaultTripDays).Format(DateLayout)
	}
	if t.Image == "" {
		t.Image = CoverImages[0].URL
	}
	if len(req.BudgetCategories) > 0 {
		t.BudgetCategories = withCategoryIDs(req.BudgetCategories)
	} else {
		t.BudgetCategories = DefaultCategories(t.TotalBudget)
	}
	for _, a := range req.Activities {
		t.Activities = append(t.Activities, withActivityID(a))
	}

	if err := ValidateTrip(t); err != nil {
		return nil, err
	}
	s.reallocate(&t)

	if err := s.store.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}
	s.logger.Info("trip created", "trip_id", t.ID, "destination", t.Destination)
	return &t, nil
}

// UpdateTrip replaces an existing trip. Spend is recomputed from its
// activities.
func (s *Service) UpdateTrip(ctx context.Context, t Trip) (*Trip, error) {
	if _, ok := s.store.Trip(t.ID); !ok {
		return nil, ErrTripNotFound
	}
	t = t.Clone()
	if t.BudgetCategories == nil {
		t.BudgetCategories = []BudgetCategory{}
	}
	if t.Activities == nil {
		t.Activities = []Activity{}
	}
	t.BudgetCategories = withCategoryIDs(t.BudgetCategories)
	for i, a := range t.Activities {
		t.Activities[i] = withActivityID(a)
	}
	if err := ValidateTrip(t); err != nil {
		return nil, err
	}
	s.reallocate(&t)

	if err := s.store.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("updating trip: %w", err)
	}
	return &t, nil
}

// DeleteTrip removes a trip together with its activities and categories.
func (s *Service) DeleteTrip(ctx context.Context, id string) error {
	if _, ok := s.store.Trip(id); !ok {
		return ErrTripNotFound
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	for _, l := range s.listeners {
		l.TripDeleted(id)
	}
	s.logger.Info("trip deleted", "trip_id", id)
	return nil
}

// SaveActivity adds an activity, or replaces the one with the same ID.
func (s *Service) SaveActivity(ctx context.Context, tripID string, a Activity) (*Trip, error) {
	t, err := s.load(tripID)
	if err != nil {
		return nil, err
	}
	a = withActivityID(a)
	if err := ValidateActivity(a); err != nil {
		return nil, err
	}

	replaced := false
	for i := range t.Activities {
		if t.Activities[i].ID == a.ID {
			t.Activities[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		t.Activities = append(t.Activities, a)
	}
	s.reallocate(&t)

	if err := s.store.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("saving activity: %w", err)
	}
	return &t, nil
}

// DeleteActivity removes an activity from a trip.
func (s *Service) DeleteActivity(ctx context.Context, tripID, activityID string) (*Trip, error) {
	t, err := s.load(tripID)
	if err != nil {
		return nil, err
	}

	kept := make([]Activity, 0, len(t.Activities))
	for _, a := range t.Activities {
		if a.ID != activityID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(t.Activities) {
		return nil, ErrActivityNotFound
	}
	t.Activities = kept
	s.reallocate(&t)

	if err := s.store.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("deleting activity: %w", err)
	}
	return &t, nil
}

// UpdateBudget replaces the trip's categories. The total budget becomes the
// sum of the new allocations.
func (s *Service) UpdateBudget(ctx context.Context, tripID string, cats []BudgetCategory) (*Trip, error) {
	t, err := s.load(tripID)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []BudgetCategory{}
	}
	cats = withCategoryIDs(cats)
	if err := ValidateCategories(cats); err != nil {
		return nil, err
	}

	t.BudgetCategories = cats
	t.TotalBudget = t.TotalAllocated()
	s.reallocate(&t)

	if err := s.store.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("updating budget: %w", err)
	}
	return &t, nil
}

func (s *Service) load(id string) (Trip, error) {
	t, ok := s.store.Trip(id)
	if !ok {
		return Trip{}, ErrTripNotFound
	}
	t = t.Clone()
	if t.BudgetCategories == nil {
		t.BudgetCategories = []BudgetCategory{}
	}
	return t, nil
}

func (s *Service) reallocate(t *Trip) {
	alloc := t.Reallocate()
	for _, a := range alloc.Fallback {
		s.logger.Debug("activity charged to first category",
			"trip_id", t.ID, "activity_id", a.ID, "category", a.Category)
	}
	for _, a := range alloc.Dropped {
		s.logger.Warn("activity cost not charged, trip has no budget categories",
			"trip_id", t.ID, "activity_id", a.ID, "cost", a.Cost.String())
	}
}

// newTripID returns "t" followed by the creation time in milliseconds,
// stepping forward while the ID is taken.
func (s *Service) newTripID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := "t" + strconv.FormatInt(ms, 10)
		if _, taken := s.store.Trip(id); !taken {
			return id
		}
		ms++
	}
}

func withActivityID(a Activity) Activity {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	return a
}

func withCategoryIDs(cats []BudgetCategory) []BudgetCategory {
	out := make([]BudgetCategory, len(cats))
	for i, c := range cats {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		out[i] = c
	}
	return out
}
