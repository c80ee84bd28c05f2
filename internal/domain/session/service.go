package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service tracks per-client view state in memory.
type Service struct {
	trips  TripLookup
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	states map[string]ViewState
}

// NewService creates a new view state service.
func NewService(trips TripLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		trips:  trips,
		logger: logger,
		now:    time.Now,
		states: make(map[string]ViewState),
	}
}

// NavigateRequest moves a client to another view.
type NavigateRequest struct {
	SessionID string
	View      View
	TripID    string
}

// Navigate switches the client's view. The dashboard needs a trip; other
// views keep the current selection unless a new trip is given.
func (s *Service) Navigate(req NavigateRequest) (*ViewState, error) {
	if req.SessionID == "" {
		return nil, ErrInvalidInput
	}
	if !req.View.Valid() {
		return nil, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, req.View)
	}
	if req.TripID != "" {
		if _, ok := s.trips.Trip(req.TripID); !ok {
			return nil, ErrTripNotFound
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.stateLocked(req.SessionID)
	if req.TripID != "" {
		state.SelectedTripID = req.TripID
	}
	if req.View == ViewDashboard && state.SelectedTripID == "" {
		return nil, fmt.Errorf("%w: dashboard requires a trip", ErrInvalidInput)
	}
	state.View = req.View
	state.LastActivity = s.now()
	s.states[req.SessionID] = state

	return &state, nil
}

// Get returns the client's view state. Unknown clients start at home.
func (s *Service) Get(sessionID string) (*ViewState, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateLocked(sessionID)
	return &state, nil
}

// TripDeleted clears the selection of every client looking at tripID and
// sends them home.
func (s *Service) TripDeleted(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, state := range s.states {
		if state.SelectedTripID != tripID {
			continue
		}
		state.SelectedTripID = ""
		state.View = ViewHome
		s.states[id] = state
		s.logger.Debug("selection cleared after trip deletion", "session_id", id, "trip_id", tripID)
	}
}

// Forget drops a client's state.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
}

func (s *Service) stateLocked(sessionID string) ViewState {
	if state, ok := s.states[sessionID]; ok {
		return state
	}
	return ViewState{SessionID: sessionID, View: ViewHome, LastActivity: s.now()}
}
