// Package commands implements the wandernest CLI.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rpggio/wandernest/internal/app"
	"github.com/rpggio/wandernest/internal/config"
	"github.com/rpggio/wandernest/internal/logging"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	dbPath     string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "wandernest",
		Short:         "Family trip planner",
		Long:          "Plan trips, budgets, and activities; serve them over HTTP and MCP; sync to a remote database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (YAML, or TOML by .toml extension); overrides "+config.PathEnv)
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database path; overrides the config")

	root.AddCommand(
		newServeCommand(flags),
		newTripsCommand(flags),
		newAnalyticsCommand(flags),
		newRemoteCommand(flags),
		newAssistantKeyCommand(flags),
		newResetCommand(flags),
		newConfigCommand(flags),
	)
	return root
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func (f *rootFlags) load() (config.Config, error) {
	if f.configPath != "" {
		if err := os.Setenv(config.PathEnv, f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if f.dbPath != "" {
		cfg.DB.Path = f.dbPath
	}
	return cfg, nil
}

// openApp wires the application for one-shot commands. Logs go to stderr
// so command output stays clean.
func (f *rootFlags) openApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, Stdio: true, Path: cfg.Log.Path})
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("close failed", "error", err)
		}
		closeLog()
	}
	return a, cleanup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
