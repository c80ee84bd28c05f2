package journal

import (
	"context"
	"time"
)

// Repository provides persistence for journal entries.
type Repository interface {
	Insert(ctx context.Context, w *Write) error
	UpdateStatus(ctx context.Context, id string, status Status, errMsg string, at time.Time) error
	List(ctx context.Context, opts ListOptions) ([]Write, error)
}
