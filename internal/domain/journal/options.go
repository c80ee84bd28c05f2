package journal

// ListOptions provides filtering options for listing writes.
type ListOptions struct {
	TripID string
	Status *Status
	Limit  int
	Offset int
}
