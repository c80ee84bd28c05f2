package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/repository"
)

// Cache keys.
const (
	KeyTrips            = "trips"
	KeyAssistantAPIKey  = "assistant_api_key"
	KeyRemoteDescriptor = "remote_descriptor"
)

// KVStore implements repository.KVStore for SQLite
type KVStore struct {
	db *DB
}

// NewKVStore creates a new KVStore
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value stored under key, or repository.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// LocalCache stores the three independent entries the application keeps
// on disk: the trip collection, the assistant credential, and the remote
// store descriptor.
type LocalCache struct {
	kv repository.KVStore
}

// NewLocalCache creates a LocalCache over a key-value store.
func NewLocalCache(kv repository.KVStore) *LocalCache {
	return &LocalCache{kv: kv}
}

// LoadTrips returns the stored trip collection. A missing entry returns
// repository.ErrNotFound; unparsable data returns a decode error.
func (c *LocalCache) LoadTrips(ctx context.Context) ([]trip.Trip, error) {
	data, err := c.kv.Get(ctx, KeyTrips)
	if err != nil {
		return nil, err
	}
	return trip.DecodeTrips(data)
}

// SaveTrips replaces the stored trip collection.
func (c *LocalCache) SaveTrips(ctx context.Context, trips []trip.Trip) error {
	data, err := trip.EncodeTrips(trips)
	if err != nil {
		return err
	}
	return c.kv.Put(ctx, KeyTrips, data)
}

// AssistantKey returns the stored assistant credential, or "" when unset.
func (c *LocalCache) AssistantKey(ctx context.Context) (string, error) {
	data, err := c.kv.Get(ctx, KeyAssistantAPIKey)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetAssistantKey stores the assistant credential.
func (c *LocalCache) SetAssistantKey(ctx context.Context, key string) error {
	return c.kv.Put(ctx, KeyAssistantAPIKey, []byte(key))
}

// ClearAssistantKey removes the assistant credential.
func (c *LocalCache) ClearAssistantKey(ctx context.Context) error {
	return c.kv.Delete(ctx, KeyAssistantAPIKey)
}

// RemoteDescriptor returns the raw stored descriptor JSON, or nil when unset.
func (c *LocalCache) RemoteDescriptor(ctx context.Context) (json.RawMessage, error) {
	data, err := c.kv.Get(ctx, KeyRemoteDescriptor)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// SaveRemoteDescriptor stores the descriptor JSON.
func (c *LocalCache) SaveRemoteDescriptor(ctx context.Context, raw json.RawMessage) error {
	return c.kv.Put(ctx, KeyRemoteDescriptor, raw)
}

// ClearRemoteDescriptor removes the descriptor.
func (c *LocalCache) ClearRemoteDescriptor(ctx context.Context) error {
	return c.kv.Delete(ctx, KeyRemoteDescriptor)
}
