package remote_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/remote"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	snaps [][]trip.Trip
}

func (r *recorder) record(trips []trip.Trip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, trips)
}

func (r *recorder) last() []trip.Trip {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func ids(trips []trip.Trip) []string {
	out := []string{}
	for _, t := range trips {
		out = append(out, t.ID)
	}
	return out
}

func keys(m map[string]error) []string {
	out := []string{}
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestMemoryStore_SubscribeDeliversSnapshots(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	rec := &recorder{}

	unsubscribe, err := store.Subscribe(ctx, rec.record)
	require.NoError(t, err)
	defer unsubscribe()

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Empty(t, rec.last())

	require.NoError(t, store.Upsert(ctx, trip.Trip{ID: "b", Destination: "Rome"}))
	require.NoError(t, store.Upsert(ctx, trip.Trip{ID: "a", Destination: "Oslo"}))

	require.Eventually(t, func() bool { return len(rec.last()) == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"a", "b"}, ids(rec.last()))

	require.NoError(t, store.Remove(ctx, "b"))
	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_UnsubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	rec := &recorder{}

	unsubscribe, err := store.Subscribe(ctx, rec.record)
	require.NoError(t, err)
	require.Equal(t, 1, store.SubscriberCount())

	unsubscribe()
	unsubscribe()
	require.Zero(t, store.SubscriberCount())

	require.NoError(t, store.Upsert(ctx, trip.Trip{ID: "a"}))
	require.Len(t, store.Snapshot(), 1)
}

func TestMemoryStore_FailWrites(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	boom := errors.New("quota exceeded")

	store.FailWrites(boom)
	require.ErrorIs(t, store.Upsert(ctx, trip.Trip{ID: "a"}), boom)
	require.ErrorIs(t, store.Remove(ctx, "a"), boom)

	conn := store.Connect()
	err := conn.BulkUpsert(ctx, []trip.Trip{{ID: "a"}, {ID: "b"}})
	var bulkErr *remote.BulkError
	require.ErrorAs(t, err, &bulkErr)
	require.Len(t, bulkErr.Failures, 2)
	require.ErrorIs(t, err, boom)

	store.FailWrites(nil)
	require.NoError(t, conn.BulkUpsert(ctx, []trip.Trip{{ID: "a"}, {ID: "b"}}))
	require.Equal(t, []string{"a", "b"}, ids(store.Snapshot()))
}

func TestMemoryConn_BulkUpsertContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	store.FailTrip("b", errors.New("document too large"))
	conn := store.Connect()

	err := conn.BulkUpsert(ctx, []trip.Trip{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	var bulkErr *remote.BulkError
	require.ErrorAs(t, err, &bulkErr)
	require.Equal(t, []string{"b"}, keys(bulkErr.Failures))
	require.Equal(t, []string{"a", "c"}, ids(store.Snapshot()))
}

func TestMemoryConn_ClosedHandleRejectsWrites(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	conn := store.Connect()
	rec := &recorder{}

	_, err := conn.Subscribe(ctx, rec.record)
	require.NoError(t, err)
	require.Equal(t, 1, store.SubscriberCount())

	require.NoError(t, conn.Close(ctx))
	require.NoError(t, conn.Close(ctx))
	require.Zero(t, store.SubscriberCount())

	require.ErrorIs(t, conn.Upsert(ctx, trip.Trip{ID: "a"}), remote.ErrNotConnected)
	require.ErrorIs(t, conn.Remove(ctx, "a"), remote.ErrNotConnected)
	require.ErrorIs(t, conn.BulkUpsert(ctx, []trip.Trip{{ID: "a"}}), remote.ErrNotConnected)
	_, err = conn.FetchAll(ctx)
	require.ErrorIs(t, err, remote.ErrNotConnected)
	_, err = conn.Subscribe(ctx, rec.record)
	require.ErrorIs(t, err, remote.ErrNotConnected)

	require.NoError(t, store.Connect().Upsert(ctx, trip.Trip{ID: "a"}))
	require.Len(t, store.Snapshot(), 1)
}

func TestMemoryStore_FirstSnapshotIsNotCoalesced(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	rec := &recorder{}

	unsubscribe, err := store.Subscribe(ctx, rec.record)
	require.NoError(t, err)
	defer unsubscribe()
	require.NoError(t, store.Upsert(ctx, trip.Trip{ID: "a"}))

	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	first := rec.snaps[0]
	rec.mu.Unlock()
	require.Empty(t, first)
	require.Equal(t, []string{"a"}, ids(rec.last()))
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore("test", nil)
	tr := trip.Trip{ID: "a", Activities: []trip.Activity{{ID: "x", Name: "Walk"}}}
	require.NoError(t, store.Upsert(ctx, tr))

	tr.Activities[0].Name = "Changed"
	snap := store.Snapshot()
	require.Equal(t, "Walk", snap[0].Activities[0].Name)
}

func TestDialer_MemoryStoresAreShared(t *testing.T) {
	ctx := context.Background()
	dialer := remote.NewDialer(nil)

	first, err := dialer.Dial(ctx, remote.Descriptor{URI: "memory://family"})
	require.NoError(t, err)
	require.NoError(t, first.Upsert(ctx, trip.Trip{ID: "t1"}))

	second, err := dialer.Dial(ctx, remote.Descriptor{URI: "memory://family"})
	require.NoError(t, err)
	fetched, err := second.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	require.Len(t, dialer.Memory("family").Snapshot(), 1)

	require.NoError(t, first.Close(ctx))
	require.ErrorIs(t, first.Upsert(ctx, trip.Trip{ID: "t2"}), remote.ErrNotConnected)
	require.NoError(t, second.Upsert(ctx, trip.Trip{ID: "t2"}))

	require.Empty(t, dialer.Memory("other").Snapshot())
}
