package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/wandernest/internal/apierror"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/shopspring/decimal"
)

type emptyInput struct{}

type tripIDInput struct {
	TripID string `json:"trip_id" jsonschema:"ID of the trip"`
}

type createTripInput struct {
	Destination string  `json:"destination,omitempty" jsonschema:"Destination, e.g. Paris, France (default Unknown)"`
	StartDate   string  `json:"start_date,omitempty" jsonschema:"First day, YYYY-MM-DD (default today)"`
	EndDate     string  `json:"end_date,omitempty" jsonschema:"Last day, YYYY-MM-DD (default start plus 5 days)"`
	TotalBudget float64 `json:"total_budget,omitempty" jsonschema:"Total budget (default 1000); split 35/25/20/20 across default categories"`
	Image       string  `json:"image,omitempty" jsonschema:"Cover image URL"`
}

type listActivitiesInput struct {
	TripID string `json:"trip_id" jsonschema:"ID of the trip"`
	Sort   string `json:"sort,omitempty" jsonschema:"Order: date, time, cost (descending), or category"`
}

type saveActivityInput struct {
	TripID   string   `json:"trip_id" jsonschema:"ID of the trip"`
	ID       string   `json:"id,omitempty" jsonschema:"Activity ID to replace; omit to add a new activity"`
	Name     string   `json:"name" jsonschema:"Activity name"`
	Date     string   `json:"date" jsonschema:"Day of the activity, YYYY-MM-DD"`
	Time     string   `json:"time,omitempty" jsonschema:"Start time, HH:MM"`
	Location string   `json:"location,omitempty" jsonschema:"Where it happens"`
	Cost     float64  `json:"cost,omitempty" jsonschema:"Cost of the activity"`
	Category string   `json:"category" jsonschema:"One of food, adventure, culture, relax, transit"`
	Notes    string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
	Lat      *float64 `json:"lat,omitempty" jsonschema:"Latitude"`
	Lng      *float64 `json:"lng,omitempty" jsonschema:"Longitude"`
}

type deleteActivityInput struct {
	TripID     string `json:"trip_id" jsonschema:"ID of the trip"`
	ActivityID string `json:"activity_id" jsonschema:"ID of the activity to remove"`
}

type budgetCategoryInput struct {
	ID        string  `json:"id,omitempty" jsonschema:"Category ID; omit for a new category"`
	Name      string  `json:"name" jsonschema:"Category name"`
	Role      string  `json:"role,omitempty" jsonschema:"accommodation, transportation, food, or activities; inferred from the name when omitted"`
	Allocated float64 `json:"allocated" jsonschema:"Amount allocated"`
	Color     string  `json:"color,omitempty" jsonschema:"Display color"`
}

type updateBudgetInput struct {
	TripID     string                `json:"trip_id" jsonschema:"ID of the trip"`
	Categories []budgetCategoryInput `json:"categories" jsonschema:"Full replacement category list; the total budget becomes their sum"`
}

type tools struct {
	svc    Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	t := &tools{svc: svc, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_trips",
		Description: "List every trip with its budget categories and activities",
	}, t.listTrips)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_trip",
		Description: "Get one trip by ID",
	}, t.getTrip)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_trip",
		Description: "Create a trip; unset fields get defaults",
	}, t.createTrip)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_trip",
		Description: "Delete a trip with its activities and budget",
	}, t.deleteTrip)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activities",
		Description: "List a trip's activities in the requested order",
	}, t.listActivities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_activity",
		Description: "Add an activity to a trip, or replace one by ID; spend is recomputed",
	}, t.saveActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_activity",
		Description: "Remove an activity from a trip; spend is recomputed",
	}, t.deleteActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_budget",
		Description: "Replace a trip's budget categories",
	}, t.updateBudget)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_overview",
		Description: "Split trips into upcoming and past",
	}, t.getOverview)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_analytics",
		Description: "Total spend, trip count, average cost, and cost per city",
	}, t.getAnalytics)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sync_status",
		Description: "Report whether trips are local-only or synced to a remote database",
	}, t.syncStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sync_to_cloud",
		Description: "Push every local trip to the connected remote database",
	}, t.syncToCloud)
}

func (t *tools) listTrips(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	trips := t.svc.Trips.List()
	if trips == nil {
		trips = []trip.Trip{}
	}
	return toolJSON(trips)
}

func (t *tools) getTrip(_ context.Context, _ *sdkmcp.CallToolRequest, in tripIDInput) (*sdkmcp.CallToolResult, any, error) {
	tr, err := t.svc.Trips.Get(in.TripID)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(tr)
}

func (t *tools) createTrip(ctx context.Context, _ *sdkmcp.CallToolRequest, in createTripInput) (*sdkmcp.CallToolResult, any, error) {
	tr, err := t.svc.Trips.CreateTrip(ctx, trip.CreateRequest{
		Destination: in.Destination,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TotalBudget: decimal.NewFromFloat(in.TotalBudget),
		Image:       in.Image,
	})
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(tr)
}

func (t *tools) deleteTrip(ctx context.Context, _ *sdkmcp.CallToolRequest, in tripIDInput) (*sdkmcp.CallToolResult, any, error) {
	if err := t.svc.Trips.DeleteTrip(ctx, in.TripID); err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(map[string]string{"deleted": in.TripID})
}

func (t *tools) listActivities(_ context.Context, _ *sdkmcp.CallToolRequest, in listActivitiesInput) (*sdkmcp.CallToolResult, any, error) {
	acts, err := t.svc.Trips.SortedActivities(in.TripID, trip.SortKey(in.Sort))
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(acts)
}

func (t *tools) saveActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in saveActivityInput) (*sdkmcp.CallToolResult, any, error) {
	act := trip.Activity{
		ID:       in.ID,
		Name:     in.Name,
		Date:     in.Date,
		Time:     in.Time,
		Location: in.Location,
		Cost:     decimal.NewFromFloat(in.Cost),
		Category: trip.Category(in.Category),
		Notes:    in.Notes,
	}
	if in.Lat != nil && in.Lng != nil {
		act.Coordinates = &trip.Coordinates{Lat: *in.Lat, Lng: *in.Lng}
	}
	tr, err := t.svc.Trips.SaveActivity(ctx, in.TripID, act)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(tr)
}

func (t *tools) deleteActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in deleteActivityInput) (*sdkmcp.CallToolResult, any, error) {
	tr, err := t.svc.Trips.DeleteActivity(ctx, in.TripID, in.ActivityID)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(tr)
}

func (t *tools) updateBudget(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateBudgetInput) (*sdkmcp.CallToolResult, any, error) {
	cats := make([]trip.BudgetCategory, 0, len(in.Categories))
	for _, c := range in.Categories {
		cats = append(cats, trip.BudgetCategory{
			ID:        c.ID,
			Name:      c.Name,
			Role:      trip.Role(c.Role),
			Allocated: decimal.NewFromFloat(c.Allocated),
			Spent:     decimal.Zero,
			Color:     c.Color,
		})
	}
	tr, err := t.svc.Trips.UpdateBudget(ctx, in.TripID, cats)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(tr)
}

func (t *tools) getOverview(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return toolJSON(t.svc.Trips.Overview())
}

func (t *tools) getAnalytics(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return toolJSON(t.svc.Trips.Analytics())
}

func (t *tools) syncStatus(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return toolJSON(t.svc.Sync.Status())
}

func (t *tools) syncToCloud(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	result, err := t.svc.Sync.SyncToCloud(ctx)
	if err != nil {
		return t.toolError(err), nil, nil
	}
	return toolJSON(result)
}

// toolError reports a failed call as a tool result carrying the API error
// payload, so clients see the same codes as the HTTP API.
func (t *tools) toolError(err error) *sdkmcp.CallToolResult {
	apiErr := apierror.From(err)
	if apiErr.Code == "INTERNAL" {
		t.logger.Error("tool call failed", "error", err)
	}
	data, mErr := json.Marshal(apiErr)
	if mErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}

func toolJSON(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
