package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/attendance-engine/calendar"
)

type holidaySaver interface {
	SaveHoliday(ctx context.Context, h calendar.Holiday) (calendar.Holiday, error)
}

// NewHolidaysCommand groups holiday calendar maintenance.
func NewHolidaysCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the holiday calendar",
	}
	cmd.AddCommand(newHolidaysImportCommand(opts))
	cmd.AddCommand(newHolidaysListCommand(opts))
	return cmd
}

func newHolidaysImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a YAML or JSON holiday calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := importHolidays(ctx, store, args[0], opts.Config.CompanyID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d holidays from %s\n", n, args[0])
			return nil
		},
	}
}

func newHolidaysListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			holidays, err := store.ListHolidays(ctx, opts.Config.CompanyID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tNAME\tRECURRING\tCOMPANY")
			for _, h := range holidays {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", h.Date, h.Name, h.Recurring, h.CompanyID)
			}
			return w.Flush()
		},
	}
}
