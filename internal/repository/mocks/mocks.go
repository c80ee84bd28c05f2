package mocks

import (
	"context"
	"time"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/stretchr/testify/mock"
)

// TripStore is a mock for trip.Store.
type TripStore struct {
	mock.Mock
}

func (m *TripStore) Trips() []trip.Trip {
	args := m.Called()
	if trips, ok := args.Get(0).([]trip.Trip); ok {
		return trips
	}
	return nil
}

func (m *TripStore) Trip(id string) (trip.Trip, bool) {
	args := m.Called(id)
	return args.Get(0).(trip.Trip), args.Bool(1)
}

func (m *TripStore) Upsert(ctx context.Context, t trip.Trip) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TripStore) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WriteRepository is a mock for journal.Repository.
type WriteRepository struct {
	mock.Mock
}

func (m *WriteRepository) Insert(ctx context.Context, w *journal.Write) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *WriteRepository) UpdateStatus(ctx context.Context, id string, status journal.Status, errMsg string, at time.Time) error {
	args := m.Called(ctx, id, status, errMsg, at)
	return args.Error(0)
}

func (m *WriteRepository) List(ctx context.Context, opts journal.ListOptions) ([]journal.Write, error) {
	args := m.Called(ctx, opts)
	if writes, ok := args.Get(0).([]journal.Write); ok {
		return writes, args.Error(1)
	}
	return nil, args.Error(1)
}

// KVStore is a mock for repository.KVStore.
type KVStore struct {
	mock.Mock
}

func (m *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if value, ok := args.Get(0).([]byte); ok {
		return value, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KVStore) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
