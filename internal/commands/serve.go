package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/wandernest/internal/app"
	"github.com/rpggio/wandernest/internal/logging"
	"github.com/spf13/cobra"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var transportMode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and MCP endpoint, or MCP over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if transportMode != "" {
				cfg.Transport.Mode = transportMode
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
			logger, closeLog, err := logging.New(logging.Options{
				Level: cfg.Log.Level,
				Stdio: cfg.Transport.Mode == "stdio",
				Path:  cfg.Log.Path,
			})
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					logger.Error("close failed", "error", err)
				}
			}()

			if cfg.Transport.Mode == "stdio" {
				return runStdio(ctx, logger, a)
			}
			return runHTTP(ctx, logger, a)
		},
	}
	cmd.Flags().StringVar(&transportMode, "transport", "", "http or stdio; overrides the config")
	return cmd
}

func runStdio(ctx context.Context, logger *slog.Logger, a *app.App) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or the context is canceled.
	if err := a.MCPServer().Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, a *app.App) error {
	addr := fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
