// Package reconcile owns the authoritative trip list and keeps it in step
// with the local cache and, when connected, a remote store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/remote"
	"github.com/rpggio/wandernest/internal/repository"
)

// Controller holds the in-memory trip list. Its mutex is never held across
// remote calls.
type Controller struct {
	cache   Cache
	dialer  Dialer
	journal Journal
	logger  *slog.Logger

	// fallbackDescriptor is used at Start when the cache holds none.
	fallbackDescriptor string

	// gate orders writes against attach and detach: writes hold it shared,
	// connection changes hold it exclusively.
	gate sync.RWMutex

	mu      sync.Mutex
	loaded  bool
	trips   []trip.Trip
	current *attachment
}

// attachment is one live connection to a remote store.
type attachment struct {
	store       remote.Store
	desc        remote.Descriptor
	unsubscribe remote.Unsubscribe
}

// Option configures a Controller.
type Option func(*Controller)

// WithJournal records every write's status.
func WithJournal(j Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// WithFallbackDescriptor sets the descriptor used at Start when none has
// been saved.
func WithFallbackDescriptor(raw string) Option {
	return func(c *Controller) {
		c.fallbackDescriptor = raw
	}
}

// NewController creates a Controller in Local-Only mode.
func NewController(cache Cache, dialer Dialer, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{cache: cache, dialer: dialer, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load seeds the trip list from the cache, falling back to the built-in
// trips when the cache is empty or unreadable.
func (c *Controller) Load(ctx context.Context) error {
	trips, err := c.cache.LoadTrips(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.logger.Info("no cached trips, using defaults")
		trips = trip.DefaultTrips()
	case err != nil:
		c.logger.Warn("cached trips unreadable, using defaults", "error", err)
		trips = trip.DefaultTrips()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = trips
	c.loaded = true
	if err := c.cache.SaveTrips(ctx, c.trips); err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}
	return nil
}

// Start connects to the saved remote store, if any. Without a descriptor
// the controller stays Local-Only.
func (c *Controller) Start(ctx context.Context) error {
	raw, err := c.cache.RemoteDescriptor(ctx)
	if err != nil {
		return fmt.Errorf("reading remote descriptor: %w", err)
	}
	source := "cache"
	if len(raw) == 0 {
		if c.fallbackDescriptor == "" {
			return nil
		}
		raw = []byte(c.fallbackDescriptor)
		source = "config"
	}

	desc, _, err := remote.ParseDescriptor(string(raw))
	if err != nil {
		return fmt.Errorf("parsing %s descriptor: %w", source, err)
	}
	if err := c.attach(ctx, desc); err != nil {
		return err
	}
	c.logger.Info("remote store connected at startup", "source", source, "project_id", desc.ProjectID)
	return nil
}

// Connect parses a pasted descriptor, connects, saves the descriptor, and
// subscribes. On any failure the previous state is kept.
func (c *Controller) Connect(ctx context.Context, raw string) (*Status, error) {
	desc, clean, err := remote.ParseDescriptor(raw)
	if err != nil {
		return nil, err
	}
	if err := c.attach(ctx, desc); err != nil {
		return nil, err
	}
	if err := c.cache.SaveRemoteDescriptor(ctx, clean); err != nil {
		c.detach(ctx)
		return nil, fmt.Errorf("saving remote descriptor: %w", err)
	}
	c.logger.Info("remote store connected", "project_id", desc.ProjectID)
	status := c.Status()
	return &status, nil
}

// Disconnect forgets the saved descriptor and returns to Local-Only.
func (c *Controller) Disconnect(ctx context.Context) error {
	if err := c.cache.ClearRemoteDescriptor(ctx); err != nil {
		return fmt.Errorf("clearing remote descriptor: %w", err)
	}
	c.detach(ctx)
	c.logger.Info("remote store disconnected")
	return nil
}

// Close drops the remote connection but keeps the saved descriptor.
func (c *Controller) Close(ctx context.Context) {
	c.detach(ctx)
}

// attach dials the store and adopts its contents before any write is
// forwarded. Adoption is decided from the collection as read here: an
// empty remote is seeded with the local trips, otherwise the remote
// replaces them. Writes wait on the gate until adoption is done. If the
// store cannot be read the previous connection is kept.
func (c *Controller) attach(ctx context.Context, desc remote.Descriptor) error {
	store, err := c.dialer.Dial(ctx, desc)
	if err != nil {
		return fmt.Errorf("connecting to remote store: %w", err)
	}
	att := &attachment{store: store, desc: desc}

	c.gate.Lock()
	defer c.gate.Unlock()

	remoteTrips, err := store.FetchAll(ctx)
	if err != nil {
		att.close(ctx, nil, c.logger)
		return fmt.Errorf("reading remote trips: %w", err)
	}

	c.mu.Lock()
	prev, prevUnsub := c.current, c.current.takeUnsubscribe()
	c.current = nil
	local := trip.CloneAll(c.trips)
	c.mu.Unlock()
	prev.close(ctx, prevUnsub, c.logger)

	if len(remoteTrips) == 0 && len(local) > 0 {
		c.logger.Info("remote store empty, pushing local trips", "count", len(local))
		result := c.pushAll(ctx, att, local)
		if result.Failed > 0 {
			c.logger.Warn("some local trips were not pushed", "failed", result.Failed, "trip_ids", result.FailedTrips)
		}
	} else if err := c.replaceTrips(ctx, remoteTrips); err != nil {
		c.logger.Error("caching remote trips", "error", err)
	}

	c.mu.Lock()
	c.current = att
	c.mu.Unlock()

	unsubscribe, err := store.Subscribe(context.WithoutCancel(ctx), func(snapshot []trip.Trip) {
		c.handleSnapshot(att, snapshot)
	})
	if err != nil {
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		att.close(ctx, nil, c.logger)
		return fmt.Errorf("subscribing to remote store: %w", err)
	}

	c.mu.Lock()
	att.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

func (c *Controller) replaceTrips(ctx context.Context, trips []trip.Trip) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = trip.CloneAll(trips)
	if c.trips == nil {
		c.trips = []trip.Trip{}
	}
	return c.cache.SaveTrips(ctx, c.trips)
}

func (c *Controller) detach(ctx context.Context) {
	c.gate.Lock()
	defer c.gate.Unlock()

	c.mu.Lock()
	att, unsubscribe := c.current, c.current.takeUnsubscribe()
	c.current = nil
	c.mu.Unlock()
	att.close(ctx, unsubscribe, c.logger)
}

// takeUnsubscribe must be called with the controller mutex held.
func (a *attachment) takeUnsubscribe() remote.Unsubscribe {
	if a == nil {
		return nil
	}
	u := a.unsubscribe
	a.unsubscribe = nil
	return u
}

func (a *attachment) close(ctx context.Context, unsubscribe remote.Unsubscribe, logger *slog.Logger) {
	if a == nil {
		return
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	if err := a.store.Close(ctx); err != nil {
		logger.Warn("closing remote store", "error", err)
	}
}

// handleSnapshot makes a remote collection the trip list and caches it.
func (c *Controller) handleSnapshot(att *attachment, snapshot []trip.Trip) {
	ctx := context.Background()

	c.mu.Lock()
	if c.current != att {
		c.mu.Unlock()
		return
	}
	c.trips = trip.CloneAll(snapshot)
	if c.trips == nil {
		c.trips = []trip.Trip{}
	}
	err := c.cache.SaveTrips(ctx, c.trips)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("caching remote snapshot", "error", err)
		return
	}
	c.logger.Debug("remote snapshot applied", "count", len(snapshot))
}

// Trips returns a copy of every trip.
func (c *Controller) Trips() []trip.Trip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return trip.CloneAll(c.trips)
}

// Trip returns a copy of one trip.
func (c *Controller) Trip(id string) (trip.Trip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.trips {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return trip.Trip{}, false
}

// Upsert creates or replaces a trip. The local copy is always updated;
// a failed remote write is logged and journaled, never rolled back.
func (c *Controller) Upsert(ctx context.Context, t trip.Trip) error {
	t = t.Clone()
	c.gate.RLock()
	defer c.gate.RUnlock()

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	replaced := false
	for i := range c.trips {
		if c.trips[i].ID == t.ID {
			c.trips[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		c.trips = append(c.trips, t)
	}
	err := c.cache.SaveTrips(ctx, c.trips)
	att := c.current
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}
	c.forward(ctx, att, journal.OpUpsert, t.ID, func(s remote.Store) error {
		return s.Upsert(ctx, t)
	})
	return nil
}

// Remove deletes a trip. Missing trips are ignored.
func (c *Controller) Remove(ctx context.Context, id string) error {
	c.gate.RLock()
	defer c.gate.RUnlock()

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	kept := make([]trip.Trip, 0, len(c.trips))
	for _, t := range c.trips {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.trips = kept
	err := c.cache.SaveTrips(ctx, c.trips)
	att := c.current
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}
	c.forward(ctx, att, journal.OpDelete, id, func(s remote.Store) error {
		return s.Remove(ctx, id)
	})
	return nil
}

// SyncToCloud pushes every local trip to the remote store.
func (c *Controller) SyncToCloud(ctx context.Context) (*SyncResult, error) {
	c.gate.RLock()
	defer c.gate.RUnlock()

	c.mu.Lock()
	att := c.current
	local := trip.CloneAll(c.trips)
	c.mu.Unlock()

	if att == nil {
		return nil, ErrNotConnected
	}
	result := c.pushAll(ctx, att, local)
	return &result, nil
}

// Reset replaces the trip list with the built-in trips. Only the local
// cache is written.
func (c *Controller) Reset(ctx context.Context) error {
	c.gate.RLock()
	defer c.gate.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.trips = trip.DefaultTrips()
	c.loaded = true
	if err := c.cache.SaveTrips(ctx, c.trips); err != nil {
		return fmt.Errorf("saving trips: %w", err)
	}
	return nil
}

// Status reports mode, trip count, and the connected project.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{Mode: ModeLocalOnly, TripCount: len(c.trips)}
	if c.current != nil {
		st.Mode = ModeCloud
		st.ProjectID = c.current.desc.ProjectID
		st.Database = c.current.desc.DatabaseName()
	}
	return st
}

// pushAll bulk-writes trips to the remote store, journaling each one. A
// failed trip does not stop the others.
func (c *Controller) pushAll(ctx context.Context, att *attachment, trips []trip.Trip) SyncResult {
	entries := make([]*journal.Write, len(trips))
	for i, t := range trips {
		entries[i] = c.begin(ctx, t.ID, journal.OpUpsert, true)
	}

	failures := map[string]error{}
	err := att.store.BulkUpsert(ctx, trips)
	var bulkErr *remote.BulkError
	switch {
	case err == nil:
	case errors.As(err, &bulkErr):
		failures = bulkErr.Failures
	default:
		for _, t := range trips {
			failures[t.ID] = err
		}
	}

	result := SyncResult{}
	for i, t := range trips {
		cause := failures[t.ID]
		c.settle(ctx, entries[i], cause)
		if cause != nil {
			c.logger.Error("remote write failed", "trip_id", t.ID, "op", journal.OpUpsert, "error", cause)
			result.Failed++
			result.FailedTrips = append(result.FailedTrips, t.ID)
			continue
		}
		result.Pushed++
	}
	return result
}

// forward journals a write and, when attached, sends it to the remote
// store. It reports whether the write reached its destination.
func (c *Controller) forward(ctx context.Context, att *attachment, op journal.Op, tripID string, write func(remote.Store) error) bool {
	entry := c.begin(ctx, tripID, op, att != nil)
	if att == nil {
		return true
	}

	err := write(att.store)
	if err != nil {
		c.logger.Error("remote write failed", "trip_id", tripID, "op", op, "error", err)
	}
	c.settle(ctx, entry, err)
	return err == nil
}

func (c *Controller) begin(ctx context.Context, tripID string, op journal.Op, toRemote bool) *journal.Write {
	if c.journal == nil {
		return nil
	}
	w, err := c.journal.Begin(ctx, tripID, op, toRemote)
	if err != nil {
		c.logger.Warn("journaling write", "trip_id", tripID, "error", err)
	}
	return w
}

func (c *Controller) settle(ctx context.Context, entry *journal.Write, cause error) {
	if entry == nil {
		return
	}
	var err error
	if cause != nil {
		err = c.journal.Fail(ctx, entry.ID, cause)
	} else {
		err = c.journal.Confirm(ctx, entry.ID)
	}
	if err != nil {
		c.logger.Warn("settling journaled write", "write_id", entry.ID, "error", err)
	}
}
