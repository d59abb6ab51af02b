package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/calendar"
)

// NewResolveCommand prints a user's resolved month as JSON.
func NewResolveCommand(opts *RootOptions) *cobra.Command {
	var month, year int

	cmd := &cobra.Command{
		Use:   "resolve USER",
		Short: "Print a resolved month as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID := args[0]

			store, holidays, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := attendance.NewService(store, store, holidays)
			svc.Clock = attendance.SystemClock{Location: opts.Config.Location()}
			svc.MaxRangeDays = opts.Config.MaxRangeDays
			svc.Logger = log.New(io.Discard, "", 0)

			today := attendance.Today(svc.Clock)
			if !cmd.Flags().Changed("month") {
				month = int(today.Month())
			}
			if !cmd.Flags().Changed("year") {
				year = today.Year()
			}

			views, err := svc.GetMonthlyAttendance(ctx, userID, month, year)
			if err != nil {
				return err
			}

			resp := api.NewAttendanceRangeResponse(userID, calendar.MonthRange(year, time.Month(month)), views)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "year (default current)")
	return cmd
}
