package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestWriteRepository_InsertList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewWriteRepository(db)

	now := time.Now()
	require.NoError(t, repo.Insert(ctx, &journal.Write{ID: "w1", TripID: "t1", Op: journal.OpUpsert, Status: journal.StatusLocal, CreatedAt: now}))
	require.NoError(t, repo.Insert(ctx, &journal.Write{ID: "w2", TripID: "t2", Op: journal.OpUpsert, Status: journal.StatusPending, CreatedAt: now}))
	require.NoError(t, repo.Insert(ctx, &journal.Write{ID: "w3", TripID: "t1", Op: journal.OpDelete, Status: journal.StatusPending, CreatedAt: now}))

	all, err := repo.List(ctx, journal.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "w3", all[0].ID)
	require.Equal(t, journal.OpDelete, all[0].Op)
	require.WithinDuration(t, now, all[0].CreatedAt, time.Second)

	forTrip, err := repo.List(ctx, journal.ListOptions{TripID: "t1"})
	require.NoError(t, err)
	require.Len(t, forTrip, 2)

	pending := journal.StatusPending
	page, err := repo.List(ctx, journal.ListOptions{Status: &pending, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "w2", page[0].ID)
}

func TestWriteRepository_DuplicateID(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewWriteRepository(db)

	w := &journal.Write{ID: "w1", TripID: "t1", Op: journal.OpUpsert, Status: journal.StatusLocal}
	require.NoError(t, repo.Insert(ctx, w))
	require.False(t, w.CreatedAt.IsZero())

	err := repo.Insert(ctx, &journal.Write{ID: "w1", TripID: "t1", Op: journal.OpUpsert, Status: journal.StatusLocal})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestWriteRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewWriteRepository(db)

	require.NoError(t, repo.Insert(ctx, &journal.Write{ID: "w1", TripID: "t1", Op: journal.OpUpsert, Status: journal.StatusPending}))
	require.NoError(t, repo.UpdateStatus(ctx, "w1", journal.StatusFailed, "connection reset", time.Now()))

	writes, err := repo.List(ctx, journal.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, journal.StatusFailed, writes[0].Status)
	require.Equal(t, "connection reset", writes[0].Error)

	err = repo.UpdateStatus(ctx, "missing", journal.StatusConfirmed, "", time.Now())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWriteRepository_WithJournalService(t *testing.T) {
	ctx := context.Background()
	svc := journal.NewService(NewWriteRepository(NewTestDB(t)), nil)

	w, err := svc.Begin(ctx, "t1", journal.OpUpsert, true)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, w.ID))

	confirmed := journal.StatusConfirmed
	writes, err := svc.Recent(ctx, journal.ListOptions{Status: &confirmed})
	require.NoError(t, err)
	require.Len(t, writes, 1)
	require.Equal(t, w.ID, writes[0].ID)
}
