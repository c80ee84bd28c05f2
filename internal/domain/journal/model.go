package journal

import "time"

// Op is the kind of trip write.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Status tracks how far a write has travelled.
type Status string

const (
	// StatusLocal means the write was applied locally with no remote store
	// attached.
	StatusLocal     Status = "local"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Write is one journaled trip mutation.
type Write struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Op        Op        `json:"op"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
