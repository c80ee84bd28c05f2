package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTripsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List, show, create, and delete trips",
	}
	cmd.AddCommand(
		newTripsListCommand(flags),
		newTripsShowCommand(flags),
		newTripsCreateCommand(flags),
		newTripsDeleteCommand(flags),
	)
	return cmd
}

func newTripsListCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), renderTrips(a.Trips.List()))
			return nil
		},
	}
}

func newTripsShowCommand(flags *rootFlags) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show a trip's budget and activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.Trips.Get(args[0])
			if err != nil {
				return err
			}
			acts, err := a.Trips.SortedActivities(t.ID, trip.SortKey(sortKey))
			if err != nil {
				return err
			}
			t.Activities = acts
			fmt.Fprintln(cmd.OutOrStdout(), renderTrip(*t))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", "date", "Activity order: date, time, cost, or category")
	return cmd
}

type createFlags struct {
	destination string
	start       string
	end         string
	budget      string
	interactive bool
}

func newTripsCreateCommand(flags *rootFlags) *cobra.Command {
	cf := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip; unset fields get defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cf.interactive {
				if err := runCreateForm(cf); err != nil {
					return err
				}
			}
			req, err := cf.request()
			if err != nil {
				return err
			}

			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := a.Trips.CreateTrip(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrip(*t))
			return nil
		},
	}
	cmd.Flags().StringVar(&cf.destination, "destination", "", "Destination, e.g. \"Paris, France\"")
	cmd.Flags().StringVar(&cf.start, "start", "", "Start date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&cf.end, "end", "", "End date, YYYY-MM-DD (default start plus 5 days)")
	cmd.Flags().StringVar(&cf.budget, "budget", "", "Total budget (default 1000)")
	cmd.Flags().BoolVarP(&cf.interactive, "interactive", "i", false, "Fill in the trip with a form")
	return cmd
}

func (cf *createFlags) request() (trip.CreateRequest, error) {
	req := trip.CreateRequest{
		Destination: cf.destination,
		StartDate:   cf.start,
		EndDate:     cf.end,
	}
	if cf.budget != "" {
		budget, err := decimal.NewFromString(cf.budget)
		if err != nil {
			return trip.CreateRequest{}, fmt.Errorf("%w: budget %q is not a number", trip.ErrInvalidInput, cf.budget)
		}
		req.TotalBudget = budget
	}
	return req, nil
}

func runCreateForm(cf *createFlags) error {
	validDate := func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := parseDate(s); err != nil {
			return err
		}
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where to?").
				Placeholder("Paris, France").
				Value(&cf.destination),
			huh.NewInput().
				Title("Start date").
				Description("YYYY-MM-DD, blank for today").
				Value(&cf.start).
				Validate(validDate),
			huh.NewInput().
				Title("End date").
				Description("YYYY-MM-DD, blank for five days later").
				Value(&cf.end).
				Validate(validDate),
			huh.NewInput().
				Title("Total budget").
				Placeholder("1000").
				Value(&cf.budget).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := decimal.NewFromString(s)
					return err
				}),
		),
	)
	return form.Run()
}

func newTripsDeleteCommand(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip with its activities and budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete trip %s?", args[0])).
					Affirmative("Delete").
					Negative("Keep").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			a, cleanup, err := flags.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Trips.DeleteTrip(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(trip.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}
