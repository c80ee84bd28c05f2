package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/wandernest/internal/apierror"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/shopspring/decimal"
)

type createTripRequest struct {
	Destination      string                `json:"destination"`
	StartDate        string                `json:"startDate"`
	EndDate          string                `json:"endDate"`
	TotalBudget      decimal.Decimal       `json:"totalBudget"`
	Image            string                `json:"image"`
	BudgetCategories []trip.BudgetCategory `json:"budgetCategories"`
	Activities       []trip.Activity       `json:"activities"`
}

type updateBudgetRequest struct {
	BudgetCategories []trip.BudgetCategory `json:"budgetCategories"`
}

func (s *Server) handleListTrips(w http.ResponseWriter, _ *http.Request) {
	trips := s.svc.Trips.List()
	if trips == nil {
		trips = []trip.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	t, err := s.svc.Trips.CreateTrip(r.Context(), trip.CreateRequest{
		Destination:      req.Destination,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TotalBudget:      req.TotalBudget,
		Image:            req.Image,
		BudgetCategories: req.BudgetCategories,
		Activities:       req.Activities,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Trips.Get(chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")
	var body trip.Trip
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if body.ID != "" && body.ID != id {
		writeError(w, s.logger, apierror.BadRequest("trip id does not match path"))
		return
	}
	body.ID = id
	t, err := s.svc.Trips.UpdateTrip(r.Context(), body)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Trips.DeleteTrip(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	key := trip.SortKey(r.URL.Query().Get("sort"))
	acts, err := s.svc.Trips.SortedActivities(chi.URLParam(r, "tripID"), key)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (s *Server) handleSaveActivity(w http.ResponseWriter, r *http.Request) {
	var act trip.Activity
	if err := decodeJSON(r, &act); err != nil {
		writeError(w, s.logger, err)
		return
	}
	t, err := s.svc.Trips.SaveActivity(r.Context(), chi.URLParam(r, "tripID"), act)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Trips.DeleteActivity(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "activityID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	t, err := s.svc.Trips.UpdateBudget(r.Context(), chi.URLParam(r, "tripID"), req.BudgetCategories)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Trips.Overview())
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Trips.Analytics())
}
