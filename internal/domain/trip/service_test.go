package trip_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu    sync.Mutex
	trips []trip.Trip
}

func (m *memStore) Trips() []trip.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return trip.CloneAll(m.trips)
}

func (m *memStore) Trip(id string) (trip.Trip, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trips {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return trip.Trip{}, false
}

func (m *memStore) Upsert(_ context.Context, t trip.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.trips {
		if m.trips[i].ID == t.ID {
			m.trips[i] = t.Clone()
			return nil
		}
	}
	m.trips = append(m.trips, t.Clone())
	return nil
}

func (m *memStore) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.trips {
		if m.trips[i].ID == id {
			m.trips = append(m.trips[:i], m.trips[i+1:]...)
			return nil
		}
	}
	return nil
}

type deletions struct {
	ids []string
}

func (d *deletions) TripDeleted(id string) {
	d.ids = append(d.ids, id)
}

var fixedNow = time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)

func newService(store trip.Store, opts ...trip.Option) *trip.Service {
	opts = append([]trip.Option{trip.WithClock(func() time.Time { return fixedNow })}, opts...)
	return trip.NewService(store, nil, opts...)
}

func TestTripService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := newService(store)

	created, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.NoError(t, err)

	require.Equal(t, "t1763631000000", created.ID)
	require.Equal(t, "Unknown", created.Destination)
	require.Equal(t, "2025-11-20", created.StartDate)
	require.Equal(t, "2025-11-25", created.EndDate)
	require.Equal(t, "1000", created.TotalBudget.String())
	require.Equal(t, trip.CoverImages[0].URL, created.Image)
	require.Empty(t, created.Activities)

	stored, ok := store.Trip(created.ID)
	require.True(t, ok)
	require.Equal(t, created.Destination, stored.Destination)
}

func TestTripService_CreateSplitsBudget(t *testing.T) {
	svc := newService(&memStore{})

	created, err := svc.CreateTrip(context.Background(), trip.CreateRequest{
		Destination: "Lisbon, Portugal",
		TotalBudget: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	var names []string
	var allocated []string
	for _, c := range created.BudgetCategories {
		names = append(names, c.Name)
		allocated = append(allocated, c.Allocated.String())
		require.True(t, c.Spent.IsZero())
	}
	require.Equal(t, []string{"Accommodation", "Transportation", "Food", "Activities"}, names)
	require.Equal(t, []string{"350", "250", "200", "200"}, allocated)
	require.Equal(t, "1000", created.TotalAllocated().String())
}

func TestTripService_CreateAvoidsIDCollision(t *testing.T) {
	store := &memStore{}
	svc := newService(store)

	first, err := svc.CreateTrip(context.Background(), trip.CreateRequest{})
	require.NoError(t, err)
	second, err := svc.CreateTrip(context.Background(), trip.CreateRequest{})
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "t1763631000001", second.ID)
}

func TestTripService_CreateValidation(t *testing.T) {
	svc := newService(&memStore{})

	_, err := svc.CreateTrip(context.Background(), trip.CreateRequest{
		StartDate: "2025-12-10",
		EndDate:   "2025-12-01",
	})
	require.ErrorIs(t, err, trip.ErrInvalidInput)

	_, err = svc.CreateTrip(context.Background(), trip.CreateRequest{StartDate: "12/10/2025"})
	require.ErrorIs(t, err, trip.ErrInvalidInput)
}

func TestTripService_SaveActivityReallocates(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc := newService(store)

	created, err := svc.CreateTrip(ctx, trip.CreateRequest{Destination: "Rome"})
	require.NoError(t, err)

	updated, err := svc.SaveActivity(ctx, created.ID, trip.Activity{
		Name:     "Colosseum",
		Date:     "2025-11-21",
		Time:     "10:00",
		Cost:     decimal.NewFromInt(40),
		Category: trip.CategoryCulture,
	})
	require.NoError(t, err)
	require.Len(t, updated.Activities, 1)
	require.NotEmpty(t, updated.Activities[0].ID)
	require.Equal(t, []string{"0", "0", "0", "40"}, spentOf(updated.BudgetCategories))

	act := updated.Activities[0]
	act.Cost = decimal.NewFromInt(25)
	act.Category = trip.CategoryFood
	updated, err = svc.SaveActivity(ctx, created.ID, act)
	require.NoError(t, err)
	require.Len(t, updated.Activities, 1)
	require.Equal(t, []string{"0", "0", "25", "0"}, spentOf(updated.BudgetCategories))
}

func TestTripService_SaveActivityValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(&memStore{})
	created, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.NoError(t, err)

	_, err = svc.SaveActivity(ctx, created.ID, trip.Activity{
		Name: "Bungee", Date: "2025-11-21", Category: "extreme",
	})
	require.ErrorIs(t, err, trip.ErrInvalidInput)

	_, err = svc.SaveActivity(ctx, "missing", trip.Activity{Name: "x"})
	require.ErrorIs(t, err, trip.ErrTripNotFound)
}

func TestTripService_DeleteActivity(t *testing.T) {
	ctx := context.Background()
	svc := newService(&memStore{})
	created, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.NoError(t, err)

	withAct, err := svc.SaveActivity(ctx, created.ID, trip.Activity{
		ID: "dinner", Name: "Dinner", Date: "2025-11-21", Cost: decimal.NewFromInt(30), Category: trip.CategoryFood,
	})
	require.NoError(t, err)
	require.Equal(t, "30", withAct.TotalSpent().String())

	after, err := svc.DeleteActivity(ctx, created.ID, "dinner")
	require.NoError(t, err)
	require.Empty(t, after.Activities)
	require.True(t, after.TotalSpent().IsZero())

	_, err = svc.DeleteActivity(ctx, created.ID, "dinner")
	require.ErrorIs(t, err, trip.ErrActivityNotFound)
}

func TestTripService_UpdateBudgetSetsTotal(t *testing.T) {
	ctx := context.Background()
	svc := newService(&memStore{})
	created, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.NoError(t, err)
	_, err = svc.SaveActivity(ctx, created.ID, trip.Activity{
		Name: "Train", Date: "2025-11-21", Cost: decimal.NewFromInt(60), Category: trip.CategoryTransit,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBudget(ctx, created.ID, []trip.BudgetCategory{
		{Name: "Rail passes", Role: trip.RoleTransportation, Allocated: decimal.NewFromInt(120)},
		{Name: "Meals", Role: trip.RoleFood, Allocated: decimal.NewFromInt(80)},
	})
	require.NoError(t, err)
	require.Equal(t, "200", updated.TotalBudget.String())
	require.Equal(t, []string{"60", "0"}, spentOf(updated.BudgetCategories))
	require.NotEmpty(t, updated.BudgetCategories[0].ID)

	_, err = svc.UpdateBudget(ctx, created.ID, []trip.BudgetCategory{
		{Name: "Meals", Allocated: decimal.NewFromInt(-1)},
	})
	require.ErrorIs(t, err, trip.ErrInvalidInput)
}

func TestTripService_DeleteNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	listener := &deletions{}
	svc := newService(store, trip.WithDeletionListener(listener))

	created, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrip(ctx, created.ID))
	require.Equal(t, []string{created.ID}, listener.ids)
	require.Empty(t, store.Trips())

	require.ErrorIs(t, svc.DeleteTrip(ctx, created.ID), trip.ErrTripNotFound)
}

func TestTripService_UpdateTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(&memStore{})
	created, err := svc.CreateTrip(ctx, trip.CreateRequest{Destination: "Oslo"})
	require.NoError(t, err)

	edited := created.Clone()
	edited.Destination = "Bergen, Norway"
	edited.BudgetCategories[0].Spent = decimal.NewFromInt(777)

	updated, err := svc.UpdateTrip(ctx, edited)
	require.NoError(t, err)
	require.Equal(t, "Bergen, Norway", updated.Destination)
	require.True(t, updated.BudgetCategories[0].Spent.IsZero())

	_, err = svc.UpdateTrip(ctx, trip.Trip{ID: "nope"})
	require.ErrorIs(t, err, trip.ErrTripNotFound)
}

func TestTripService_StoreFailureIsWrapped(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("disk full")

	store := &mocks.TripStore{}
	store.On("Trip", mock.Anything).Return(trip.Trip{}, false)
	store.On("Upsert", ctx, mock.Anything).Return(storeErr)

	svc := newService(store)
	_, err := svc.CreateTrip(ctx, trip.CreateRequest{})
	require.ErrorIs(t, err, storeErr)
	store.AssertExpectations(t)
}
