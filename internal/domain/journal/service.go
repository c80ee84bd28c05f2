package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/wandernest/internal/repository"
)

// Service records the status of every trip write.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new journal service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Begin journals a write. Writes that will be forwarded to a remote store
// start pending; others are local and final.
func (s *Service) Begin(ctx context.Context, tripID string, op Op, remote bool) (*Write, error) {
	if tripID == "" || (op != OpUpsert && op != OpDelete) {
		return nil, ErrInvalidInput
	}
	now := s.now()
	status := StatusLocal
	if remote {
		status = StatusPending
	}
	w := &Write{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Op:        op,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, w); err != nil {
		return nil, fmt.Errorf("journaling write: %w", err)
	}
	return w, nil
}

// Confirm marks a pending write as acknowledged by the remote store.
func (s *Service) Confirm(ctx context.Context, id string) error {
	return s.settle(ctx, id, StatusConfirmed, "")
}

// Fail marks a pending write as rejected by the remote store.
func (s *Service) Fail(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.settle(ctx, id, StatusFailed, msg)
}

func (s *Service) settle(ctx context.Context, id string, status Status, errMsg string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.UpdateStatus(ctx, id, status, errMsg, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWriteNotFound
		}
		return fmt.Errorf("updating write status: %w", err)
	}
	return nil
}

// Recent lists journaled writes, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Write, error) {
	writes, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing writes: %w", err)
	}
	return writes, nil
}
