package trip_test

import (
	"encoding/json"
	"testing"

	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/stretchr/testify/require"
)

func TestTripJSONWritesMoneyAsNumbers(t *testing.T) {
	in := trip.Trip{
		ID:          "t1",
		TotalBudget: money(1000),
		BudgetCategories: []trip.BudgetCategory{
			{ID: "c1", Name: "Food", Allocated: money(200), Spent: money(35)},
		},
		Activities: []trip.Activity{{ID: "a1", Cost: money(35), Category: trip.CategoryFood}},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"totalBudget":1000`)
	require.Contains(t, string(data), `"allocated":200`)
	require.Contains(t, string(data), `"cost":35`)

	var out trip.Trip
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "35", out.BudgetCategories[0].Spent.String())

	var quoted trip.Trip
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t2","totalBudget":"450.5"}`), &quoted))
	require.Equal(t, "450.5", quoted.TotalBudget.String())
}
