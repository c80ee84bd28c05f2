package session_test

import (
	"testing"

	"github.com/rpggio/wandernest/internal/domain/session"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/stretchr/testify/require"
)

type tripSet map[string]trip.Trip

func (s tripSet) Trip(id string) (trip.Trip, bool) {
	t, ok := s[id]
	return t, ok
}

func newTrips() tripSet {
	return tripSet{
		"t1": {ID: "t1", Destination: "Paris"},
		"t2": {ID: "t2", Destination: "Rome"},
	}
}

func TestSessionService_DefaultsToHome(t *testing.T) {
	svc := session.NewService(newTrips(), nil)

	state, err := svc.Get("client-a")
	require.NoError(t, err)
	require.Equal(t, session.ViewHome, state.View)
	require.Empty(t, state.SelectedTripID)

	_, err = svc.Get("")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_NavigateToDashboard(t *testing.T) {
	svc := session.NewService(newTrips(), nil)

	state, err := svc.Navigate(session.NavigateRequest{SessionID: "a", View: session.ViewDashboard, TripID: "t1"})
	require.NoError(t, err)
	require.Equal(t, session.ViewDashboard, state.View)
	require.Equal(t, "t1", state.SelectedTripID)

	state, err = svc.Navigate(session.NavigateRequest{SessionID: "a", View: session.ViewAnalytics})
	require.NoError(t, err)
	require.Equal(t, "t1", state.SelectedTripID)
}

func TestSessionService_NavigateValidation(t *testing.T) {
	svc := session.NewService(newTrips(), nil)

	_, err := svc.Navigate(session.NavigateRequest{SessionID: "a", View: session.ViewDashboard})
	require.ErrorIs(t, err, session.ErrInvalidInput)

	_, err = svc.Navigate(session.NavigateRequest{SessionID: "a", View: "settings"})
	require.ErrorIs(t, err, session.ErrInvalidInput)

	_, err = svc.Navigate(session.NavigateRequest{SessionID: "a", View: session.ViewDashboard, TripID: "t9"})
	require.ErrorIs(t, err, session.ErrTripNotFound)
}

func TestSessionService_TripDeletedReturnsHome(t *testing.T) {
	svc := session.NewService(newTrips(), nil)

	_, err := svc.Navigate(session.NavigateRequest{SessionID: "a", View: session.ViewDashboard, TripID: "t1"})
	require.NoError(t, err)
	_, err = svc.Navigate(session.NavigateRequest{SessionID: "b", View: session.ViewDashboard, TripID: "t2"})
	require.NoError(t, err)

	svc.TripDeleted("t1")

	a, err := svc.Get("a")
	require.NoError(t, err)
	require.Equal(t, session.ViewHome, a.View)
	require.Empty(t, a.SelectedTripID)

	b, err := svc.Get("b")
	require.NoError(t, err)
	require.Equal(t, session.ViewDashboard, b.View)
	require.Equal(t, "t2", b.SelectedTripID)
}
