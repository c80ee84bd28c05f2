package remote

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/rpggio/wandernest/internal/domain/trip"
)

// MemoryStore is an in-process trips collection. Subscribers receive the
// latest snapshot on their own goroutine; intermediate snapshots may be
// coalesced.
type MemoryStore struct {
	name   string
	logger *slog.Logger

	mu        sync.Mutex
	docs      map[string]trip.Trip
	subs      map[int]*memorySub
	nextSubID int
	failWith  error
	failTrips map[string]error
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(name string, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MemoryStore{
		name:      name,
		logger:    logger,
		docs:      make(map[string]trip.Trip),
		subs:      make(map[int]*memorySub),
		failTrips: make(map[string]error),
	}
}

// FailWrites makes every following write return err. Pass nil to recover.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// FailTrip makes writes of one trip return err. Pass nil to recover.
func (s *MemoryStore) FailTrip(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failTrips, id)
		return
	}
	s.failTrips[id] = err
}

// Snapshot returns the current collection ordered by trip ID.
func (s *MemoryStore) Snapshot() []trip.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SubscriberCount reports the number of live subscriptions.
func (s *MemoryStore) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribe delivers the current collection, then again after every change.
// The first snapshot is always delivered as taken; later ones may be
// coalesced.
func (s *MemoryStore) Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	sub := &memorySub{signal: make(chan struct{}, 1)}

	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = sub
	initial := s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		if ctx.Err() != nil {
			return
		}
		fn(initial)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.signal:
				if snap, ok := sub.take(); ok {
					fn(snap)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			cancel()
		})
	}, nil
}

// Upsert replaces the trip's document.
func (s *MemoryStore) Upsert(_ context.Context, t trip.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if err := s.failTrips[t.ID]; err != nil {
		return err
	}
	s.docs[t.ID] = t.Clone()
	s.publishLocked()
	return nil
}

// Remove deletes the trip's document. Missing documents are not an error.
func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	delete(s.docs, id)
	s.publishLocked()
	return nil
}

// Connect opens a connection handle to the collection. The collection
// outlives its handles.
func (s *MemoryStore) Connect() *MemoryConn {
	return &MemoryConn{store: s, unsubs: make(map[int]Unsubscribe)}
}

func (s *MemoryStore) snapshotLocked() []trip.Trip {
	out := make([]trip.Trip, 0, len(s.docs))
	for _, t := range s.docs {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	for _, sub := range s.subs {
		sub.offer(s.snapshotLocked())
	}
	s.logger.Debug("memory store published snapshot", "store", s.name, "docs", len(s.docs), "subscribers", len(s.subs))
}

type memorySub struct {
	mu      sync.Mutex
	pending []trip.Trip
	has     bool
	signal  chan struct{}
}

func (m *memorySub) offer(snap []trip.Trip) {
	m.mu.Lock()
	m.pending = snap
	m.has = true
	m.mu.Unlock()
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *memorySub) take() ([]trip.Trip, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.has {
		return nil, false
	}
	snap := m.pending
	m.pending = nil
	m.has = false
	return snap, true
}

// MemoryConn is one connection to a MemoryStore. After Close every call
// returns ErrNotConnected and its subscriptions stop.
type MemoryConn struct {
	store *MemoryStore

	mu      sync.Mutex
	closed  bool
	unsubs  map[int]Unsubscribe
	nextSub int
}

func (c *MemoryConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// FetchAll returns the current collection.
func (c *MemoryConn) FetchAll(context.Context) ([]trip.Trip, error) {
	if c.isClosed() {
		return nil, ErrNotConnected
	}
	return c.store.Snapshot(), nil
}

func (c *MemoryConn) Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrNotConnected
	}
	unsubscribe, err := c.store.Subscribe(ctx, fn)
	if err != nil {
		return nil, err
	}
	c.nextSub++
	id := c.nextSub
	c.unsubs[id] = unsubscribe
	return func() {
		c.mu.Lock()
		delete(c.unsubs, id)
		c.mu.Unlock()
		unsubscribe()
	}, nil
}

func (c *MemoryConn) Upsert(ctx context.Context, t trip.Trip) error {
	if c.isClosed() {
		return ErrNotConnected
	}
	return c.store.Upsert(ctx, t)
}

func (c *MemoryConn) Remove(ctx context.Context, id string) error {
	if c.isClosed() {
		return ErrNotConnected
	}
	return c.store.Remove(ctx, id)
}

func (c *MemoryConn) BulkUpsert(ctx context.Context, trips []trip.Trip) error {
	if c.isClosed() {
		return ErrNotConnected
	}
	return bulkUpsert(ctx, c, trips)
}

// Close stops the handle's subscriptions. Closing twice is safe.
func (c *MemoryConn) Close(context.Context) error {
	c.mu.Lock()
	c.closed = true
	unsubs := c.unsubs
	c.unsubs = make(map[int]Unsubscribe)
	c.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	return nil
}
