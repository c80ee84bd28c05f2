package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/reconcile"
)

// TripService defines trip operations needed by MCP.
type TripService interface {
	List() []trip.Trip
	Get(id string) (*trip.Trip, error)
	CreateTrip(ctx context.Context, req trip.CreateRequest) (*trip.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
	SaveActivity(ctx context.Context, tripID string, a trip.Activity) (*trip.Trip, error)
	DeleteActivity(ctx context.Context, tripID, activityID string) (*trip.Trip, error)
	UpdateBudget(ctx context.Context, tripID string, cats []trip.BudgetCategory) (*trip.Trip, error)
	SortedActivities(tripID string, key trip.SortKey) ([]trip.Activity, error)
	Overview() trip.Overview
	Analytics() trip.Analytics
}

// SyncService reports remote store state and pushes local trips.
type SyncService interface {
	Status() reconcile.Status
	SyncToCloud(ctx context.Context) (*reconcile.SyncResult, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Trips TripService
	Sync  SyncService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "wandernest",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
