package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/attendance-engine/calendar"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/store/sqlite"
)

// RootOptions holds global flags and the resolved configuration.
type RootOptions struct {
	EnvFile string
	DBPath  string
	Company string

	Config config.Config
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Attendance & leave reconciliation engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if opts.EnvFile != "" {
				files = append(files, opts.EnvFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = opts.DBPath
			}
			if cmd.Flags().Changed("company") {
				cfg.CompanyID = opts.Company
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to load (default .env)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "SQLite database path (\":memory:\" for in-memory)")
	cmd.PersistentFlags().StringVar(&opts.Company, "company", "", "company whose holidays apply")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewHolidaysCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))

	return cmd
}

// openStore opens the configured database and loads its holiday calendar.
func openStore(ctx context.Context, opts *RootOptions) (*sqlite.Store, *calendar.Snapshot, error) {
	store, err := sqlite.New(opts.Config.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", opts.Config.DBPath, err)
	}
	set, err := store.HolidaySet(ctx, opts.Config.CompanyID)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, calendar.NewSnapshot(set), nil
}
