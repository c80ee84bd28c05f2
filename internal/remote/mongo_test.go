package remote

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestEncodeDecodeTrip(t *testing.T) {
	in := trip.Trip{
		ID:          "t1",
		Destination: "Paris, France",
		StartDate:   "2025-10-02",
		EndDate:     "2025-10-06",
		TotalBudget: decimal.RequireFromString("700.50"),
		BudgetCategories: []trip.BudgetCategory{
			{ID: "b1", Name: "Food", Role: trip.RoleFood, Allocated: decimal.NewFromInt(100), Spent: decimal.RequireFromString("12.25")},
		},
		Activities: []trip.Activity{
			{ID: "a1", Name: "Lunch", Date: "2025-10-03", Cost: decimal.RequireFromString("12.25"), Category: trip.CategoryFood,
				Coordinates: &trip.Coordinates{Lat: 48.8539, Lng: 2.3331}},
		},
	}

	doc, err := encodeTrip(in)
	require.NoError(t, err)
	require.Equal(t, "_id", doc[0].Key)
	require.Equal(t, "t1", doc[0].Value)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	out, err := decodeTrip(raw)
	require.NoError(t, err)
	require.Equal(t, "700.5", out.TotalBudget.String())
	require.Equal(t, "12.25", out.BudgetCategories[0].Spent.String())
	require.Equal(t, trip.RoleFood, out.BudgetCategories[0].Role)
	require.InDelta(t, 48.8539, out.Activities[0].Coordinates.Lat, 1e-9)
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := store.Upsert(context.Background(), trip.Trip{ID: "t1", Destination: "Rome"})
		require.NoError(mt, err)
	})

	mt.Run("upsert failure", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		err := store.Upsert(context.Background(), trip.Trip{ID: "t1"})
		require.Error(mt, err)
		require.Contains(mt, err.Error(), "saving trip t1")
	})

	mt.Run("remove", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, store.Remove(context.Background(), "t1"))
	})

	mt.Run("fetch all", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "t1"},
				{Key: "id", Value: "t1"},
				{Key: "destination", Value: "Paris, France"},
				{Key: "totalBudget", Value: "700"},
				{Key: "budgetCategories", Value: bson.A{}},
				{Key: "activities", Value: bson.A{}},
			},
			bson.D{
				{Key: "_id", Value: "t2"},
				{Key: "destination", Value: "Trabzon, Turkey"},
				{Key: "totalBudget", Value: 450},
			},
		))

		trips, err := store.FetchAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, trips, 2)
		require.Equal(mt, "Paris, France", trips[0].Destination)
		require.Equal(mt, "t2", trips[1].ID)
		require.Equal(mt, "450", trips[1].TotalBudget.String())
	})

	mt.Run("bulk upsert", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		err := store.BulkUpsert(context.Background(), []trip.Trip{{ID: "t1"}, {ID: "t2"}})
		require.NoError(mt, err)
	})

	mt.Run("bulk upsert continues past a failed document", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   1,
			Code:    10334,
			Message: "document too large",
		}))

		err := store.BulkUpsert(context.Background(), []trip.Trip{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}})
		var bulkErr *BulkError
		require.ErrorAs(mt, err, &bulkErr)
		require.Len(mt, bulkErr.Failures, 1)
		require.Contains(mt, bulkErr.Failures, "t2")
	})

	mt.Run("subscribe", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		doc := func(id string) bson.D {
			return bson.D{{Key: "_id", Value: id}, {Key: "destination", Value: id}}
		}
		mt.AddMockResponses(
			// Watch opens the change stream.
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch),
			// Initial snapshot.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc("t1")),
			// One change event.
			mtest.CreateCursorResponse(1, ns, mtest.NextBatch, bson.D{
				{Key: "_id", Value: bson.D{{Key: "_data", Value: "token-1"}}},
				{Key: "operationType", Value: "insert"},
			}),
			// Snapshot after the change.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc("t1"), doc("t2")),
		)

		snaps := make(chan []trip.Trip, 4)
		unsubscribe, err := store.Subscribe(context.Background(), func(trips []trip.Trip) {
			snaps <- trips
		})
		require.NoError(mt, err)

		first := <-snaps
		require.Len(mt, first, 1)
		require.Equal(mt, "t1", first[0].ID)

		second := <-snaps
		require.Len(mt, second, 2)
		require.Equal(mt, "t2", second[1].ID)

		unsubscribe()
		unsubscribe()
		select {
		case extra := <-snaps:
			mt.Fatalf("snapshot delivered after unsubscribe: %v", extra)
		case <-time.After(100 * time.Millisecond):
		}
	})

	mt.Run("closed store", func(mt *mtest.T) {
		store := NewMongoStore(nil, mt.Coll, nil)
		require.NoError(mt, store.Close(context.Background()))

		require.ErrorIs(mt, store.Upsert(context.Background(), trip.Trip{ID: "t1"}), ErrNotConnected)
		require.ErrorIs(mt, store.Remove(context.Background(), "t1"), ErrNotConnected)
		require.ErrorIs(mt, store.BulkUpsert(context.Background(), []trip.Trip{{ID: "t1"}}), ErrNotConnected)
		_, err := store.Subscribe(context.Background(), func([]trip.Trip) {})
		require.ErrorIs(mt, err, ErrNotConnected)
		_, err = store.FetchAll(context.Background())
		require.ErrorIs(mt, err, ErrNotConnected)
	})
}
