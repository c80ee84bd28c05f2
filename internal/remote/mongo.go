package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore keeps trips in a MongoDB collection, one document per trip
// with _id set to the trip ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// DialMongo connects to the database named by d and verifies the
// connection.
func DialMongo(ctx context.Context, d Descriptor, logger *slog.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(d.URI)
	if d.APIKey != "" && !strings.Contains(d.URI, "@") {
		opts.SetAuth(options.Credential{Username: d.ProjectID, Password: d.APIKey})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	coll := client.Database(d.DatabaseName()).Collection(CollectionName)
	return NewMongoStore(client, coll, logger), nil
}

// NewMongoStore wraps an existing collection. client may be nil when the
// caller owns the connection.
func NewMongoStore(client *mongo.Client, coll *mongo.Collection, logger *slog.Logger) *MongoStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MongoStore{client: client, coll: coll, logger: logger}
}

// Subscribe delivers the whole collection now and after every change
// reported by the collection's change stream.
func (s *MongoStore) Subscribe(ctx context.Context, fn SnapshotFunc) (Unsubscribe, error) {
	if s.isClosed() {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := s.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watching trips: %w", err)
	}

	go func() {
		defer stream.Close(context.Background())

		s.deliver(ctx, fn)
		for stream.Next(ctx) {
			s.deliver(ctx, fn)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.logger.Error("trip change stream stopped", "error", err)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

func (s *MongoStore) deliver(ctx context.Context, fn SnapshotFunc) {
	trips, err := s.FetchAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("loading trip snapshot", "error", err)
		}
		return
	}
	fn(trips)
}

// FetchAll reads every trip document ordered by ID.
func (s *MongoStore) FetchAll(ctx context.Context) ([]trip.Trip, error) {
	if s.isClosed() {
		return nil, ErrNotConnected
	}
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding trips: %w", err)
	}
	defer cursor.Close(ctx)

	trips := []trip.Trip{}
	for cursor.Next(ctx) {
		t, err := decodeTrip(cursor.Current)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return trips, nil
}

// Upsert replaces the trip's document, creating it if needed.
func (s *MongoStore) Upsert(ctx context.Context, t trip.Trip) error {
	if s.isClosed() {
		return ErrNotConnected
	}
	doc, err := encodeTrip(t)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: t.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving trip %s: %w", t.ID, err)
	}
	return nil
}

// Remove deletes the trip's document.
func (s *MongoStore) Remove(ctx context.Context, id string) error {
	if s.isClosed() {
		return ErrNotConnected
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("deleting trip %s: %w", id, err)
	}
	return nil
}

// BulkUpsert replaces every trip's document in one unordered bulk write, so
// one failing document does not stop the rest.
func (s *MongoStore) BulkUpsert(ctx context.Context, trips []trip.Trip) error {
	if s.isClosed() {
		return ErrNotConnected
	}

	failures := make(map[string]error)
	models := make([]mongo.WriteModel, 0, len(trips))
	sent := make([]string, 0, len(trips))
	for _, t := range trips {
		doc, err := encodeTrip(t)
		if err != nil {
			failures[t.ID] = err
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: t.ID}}).
			SetReplacement(doc).
			SetUpsert(true))
		sent = append(sent, t.ID)
	}

	if len(models) > 0 {
		_, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
		var bulkErr mongo.BulkWriteException
		switch {
		case err == nil:
		case errors.As(err, &bulkErr) && len(bulkErr.WriteErrors) > 0:
			for _, we := range bulkErr.WriteErrors {
				if we.Index >= 0 && we.Index < len(sent) {
					failures[sent[we.Index]] = fmt.Errorf("saving trip %s: %w", sent[we.Index], we)
				}
			}
		default:
			for _, id := range sent {
				failures[id] = fmt.Errorf("saving trip %s: %w", id, err)
			}
		}
	}

	if len(failures) > 0 {
		return &BulkError{Failures: failures}
	}
	return nil
}

// Close disconnects the client. Later calls return ErrNotConnected.
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnecting: %w", err)
	}
	return nil
}

func (s *MongoStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// encodeTrip renders a trip as a document through its JSON form, so the
// stored fields match the trip's JSON names and money is numeric.
func encodeTrip(t trip.Trip) (bson.D, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding trip %s: %w", t.ID, err)
	}
	var body bson.D
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return nil, fmt.Errorf("converting trip %s: %w", t.ID, err)
	}
	return append(bson.D{{Key: "_id", Value: t.ID}}, body...), nil
}

func decodeTrip(raw bson.Raw) (trip.Trip, error) {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return trip.Trip{}, fmt.Errorf("converting trip document: %w", err)
	}
	var t trip.Trip
	if err := json.Unmarshal(data, &t); err != nil {
		return trip.Trip{}, fmt.Errorf("decoding trip document: %w", err)
	}
	if t.ID == "" {
		if id, ok := raw.Lookup("_id").StringValueOK(); ok {
			t.ID = id
		}
	}
	return t, nil
}
