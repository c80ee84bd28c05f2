// Package apierror converts domain errors into the error payload shared by
// the HTTP API and the MCP tools.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/session"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/reconcile"
	"github.com/rpggio/wandernest/internal/remote"
)

// APIError is the error payload returned to clients.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	Status       int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Internal is returned for errors with no domain mapping.
func Internal(err error) *APIError {
	return &APIError{Code: "INTERNAL", Message: err.Error(), Status: http.StatusInternalServerError}
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(msg string) *APIError {
	return &APIError{Code: "BAD_REQUEST", Message: msg, Status: http.StatusBadRequest}
}

// Map maps domain errors to API errors. It returns nil when err is nil or
// has no domain mapping.
func Map(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, trip.ErrTripNotFound), errors.Is(err, session.ErrTripNotFound):
		return &APIError{Code: "TRIP_NOT_FOUND", Message: "trip not found", RecoveryHint: "List trips to find a valid ID", Status: http.StatusNotFound}
	case errors.Is(err, trip.ErrActivityNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: "activity not found", RecoveryHint: "Fetch the trip to see its activities", Status: http.StatusNotFound}
	case errors.Is(err, journal.ErrWriteNotFound):
		return &APIError{Code: "WRITE_NOT_FOUND", Message: "write not found", Status: http.StatusNotFound}
	case errors.Is(err, remote.ErrInvalidDescriptor):
		return &APIError{Code: "INVALID_DESCRIPTOR", Message: err.Error(), RecoveryHint: "Paste the JSON config object including uri and projectId", Status: http.StatusBadRequest}
	case errors.Is(err, remote.ErrConnect):
		return &APIError{Code: "CONNECT_FAILED", Message: err.Error(), RecoveryHint: "Check the uri and credentials; the app stays local-only", Status: http.StatusBadGateway}
	case errors.Is(err, reconcile.ErrNotConnected), errors.Is(err, remote.ErrNotConnected):
		return &APIError{Code: "NOT_CONNECTED", Message: "not connected to a remote store", RecoveryHint: "Connect a remote database first", Status: http.StatusConflict}
	case errors.Is(err, trip.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, journal.ErrInvalidInput),
		errors.Is(err, assistant.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), Status: http.StatusBadRequest}
	default:
		return nil
	}
}

// From maps err, falling back to an internal error.
func From(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if mapped := Map(err); mapped != nil {
		return mapped
	}
	return Internal(err)
}
