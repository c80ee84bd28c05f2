package commands

import (
	"fmt"

	"github.com/rpggio/wandernest/internal/config"
	"github.com/spf13/cobra"
)

func newAnalyticsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show spend across all trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), renderAnalytics(a.Trips.Analytics()))
			return nil
		},
	}
}

func newAssistantKeyCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant-key",
		Short: "Manage the Gemini API key used by the assistant",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key>",
			Short: "Save the API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				if err := a.Assistant.SaveAPIKey(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Assistant key saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the saved API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				if err := a.Assistant.ClearAPIKey(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Assistant key cleared")
				return nil
			},
		},
	)
	return cmd
}

func newResetCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace local trips with the built-in sample trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Controller.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrips(a.Trips.List()))
			return nil
		},
	}
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server:    %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Fprintf(out, "Database:  %s\n", cfg.DB.Path)
			fmt.Fprintf(out, "Transport: %s\n", cfg.Transport.Mode)
			fmt.Fprintf(out, "Log level: %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "Model:     %s\n", cfg.Assistant.Model)
			if cfg.Assistant.APIKey != "" {
				fmt.Fprintf(out, "API key:   %s\n", maskKey(cfg.Assistant.APIKey))
			}
			if cfg.Remote.Descriptor != "" {
				fmt.Fprintln(out, "Remote:    descriptor configured")
			}
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a default config file (YAML, or TOML by .toml extension)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force && fileExists(path) {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
