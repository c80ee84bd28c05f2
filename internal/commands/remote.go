package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/spf13/cobra"
)

func newRemoteCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the remote database connection",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "connect <descriptor|->",
			Short: "Connect with a pasted config object; - reads it from stdin",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw := args[0]
				if raw == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("reading descriptor: %w", err)
					}
					raw = strings.TrimSpace(string(data))
				}

				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				status, err := a.Controller.Connect(cmd.Context(), raw)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(*status))
				return nil
			},
		},
		&cobra.Command{
			Use:   "disconnect",
			Short: "Forget the remote database and work local-only",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				if err := a.Controller.Disconnect(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(a.Controller.Status()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Push every local trip to the remote database",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				result, err := a.Controller.SyncToCloud(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d trips, %d failed\n", result.Pushed, result.Failed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether trips are local-only or cloud-connected",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, cleanup, err := flags.openApp(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()

				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(a.Controller.Status()))
				return nil
			},
		},
		newRemoteLogCommand(flags),
	)
	return cmd
}

func newRemoteLogCommand(flags *rootFlags) *cobra.Command {
	var (
		tripID string
		status string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent trip writes and whether they reached the remote database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			opts := journal.ListOptions{TripID: tripID, Limit: limit}
			if status != "" {
				s := journal.Status(status)
				opts.Status = &s
			}
			writes, err := a.Journal.Recent(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWrites(writes))
			return nil
		},
	}
	cmd.Flags().StringVar(&tripID, "trip", "", "Only writes for this trip")
	cmd.Flags().StringVar(&status, "status", "", "Only writes with this status: local, pending, confirmed, failed")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum writes to show")
	return cmd
}
