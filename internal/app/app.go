// Package app wires storage, sync, domain services, and transports into one
// process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/config"
	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/session"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/mcp"
	"github.com/rpggio/wandernest/internal/reconcile"
	"github.com/rpggio/wandernest/internal/remote"
	"github.com/rpggio/wandernest/internal/sqlite"
	"github.com/rpggio/wandernest/internal/transport"
)

// Version is reported by the MCP server.
var Version = "dev"

// App holds the wired services of a running process.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	DB         *sqlite.DB
	Dialer     *remote.Dialer
	Controller *reconcile.Controller
	Journal    *journal.Service
	Trips      *trip.Service
	Sessions   *session.Service
	Assistant  *assistant.Service
}

type options struct {
	generator assistant.Generator
	clock     func() time.Time
}

// Option customizes New.
type Option func(*options)

// WithGenerator replaces the Gemini client.
func WithGenerator(g assistant.Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithClock replaces the time source used for trip defaults and chat timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// New opens the database, loads trips, and connects to the saved remote
// store if there is one. A failed remote connection leaves the app
// Local-Only.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := options{generator: assistant.NewGemini()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	cache := sqlite.NewLocalCache(sqlite.NewKVStore(db))
	journalSvc := journal.NewService(sqlite.NewWriteRepository(db), logger)
	dialer := remote.NewDialer(logger)

	controller := reconcile.NewController(cache, dialer, logger,
		reconcile.WithJournal(journalSvc),
		reconcile.WithFallbackDescriptor(cfg.Remote.Descriptor),
	)
	if err := controller.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	if err := controller.Start(ctx); err != nil {
		logger.Warn("remote store unavailable, staying local-only", "error", err)
	}

	sessions := session.NewService(controller, logger)
	tripOpts := []trip.Option{trip.WithDeletionListener(sessions)}
	var assistantOpts []assistant.Option
	if o.clock != nil {
		tripOpts = append(tripOpts, trip.WithClock(o.clock))
		assistantOpts = append(assistantOpts, assistant.WithClock(o.clock))
	}
	trips := trip.NewService(controller, logger, tripOpts...)

	assistantSvc := assistant.NewService(o.generator, cache, cfg.Assistant.Model, logger, assistantOpts...)
	if err := assistantSvc.LoadAPIKey(ctx); err != nil {
		logger.Warn("could not load assistant key", "error", err)
	}
	if cfg.Assistant.APIKey != "" {
		assistantSvc.SetAPIKey(cfg.Assistant.APIKey)
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Dialer:     dialer,
		Controller: controller,
		Journal:    journalSvc,
		Trips:      trips,
		Sessions:   sessions,
		Assistant:  assistantSvc,
	}, nil
}

// MCPServer builds the MCP server over the app's services.
func (a *App) MCPServer() *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Trips: a.Trips,
			Sync:  a.Controller,
		},
		TransportMode: a.Config.Transport.Mode,
		Version:       Version,
		Logger:        a.Logger,
	})
}

// Handler builds the HTTP API with the MCP endpoint mounted at /mcp.
func (a *App) Handler() http.Handler {
	mcpServer := a.MCPServer()
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)
	return transport.NewServer(transport.Services{
		Trips:     a.Trips,
		Sessions:  a.Sessions,
		Sync:      a.Controller,
		Assistant: a.Assistant,
		Writes:    a.Journal,
	}, mcpHandler, a.Logger)
}

// Close drops the remote connection and closes the database.
func (a *App) Close(ctx context.Context) error {
	a.Controller.Close(ctx)
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
