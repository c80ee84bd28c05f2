package reconcile

// Mode says whether writes are forwarded to a remote store.
type Mode string

const (
	ModeLocalOnly Mode = "local"
	ModeCloud     Mode = "cloud"
)

// Status describes the controller's current state.
type Status struct {
	Mode      Mode   `json:"mode"`
	TripCount int    `json:"trip_count"`
	ProjectID string `json:"project_id,omitempty"`
	Database  string `json:"database,omitempty"`
}

// SyncResult reports a bulk push to the remote store.
type SyncResult struct {
	Pushed      int      `json:"pushed"`
	Failed      int      `json:"failed"`
	FailedTrips []string `json:"failed_trips,omitempty"`
}
