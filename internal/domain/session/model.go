package session

import "time"

// View is the screen a client is looking at.
type View string

const (
	ViewHome      View = "home"
	ViewDashboard View = "dashboard"
	ViewAnalytics View = "analytics"
	ViewCreate    View = "create"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewDashboard, ViewAnalytics, ViewCreate:
		return true
	}
	return false
}

// ViewState is what one client currently has open.
type ViewState struct {
	SessionID      string    `json:"session_id"`
	View           View      `json:"view"`
	SelectedTripID string    `json:"selected_trip_id,omitempty"`
	LastActivity   time.Time `json:"last_activity"`
}
