package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/attendance-engine/store/sqlite"
)

// NewUsersCommand groups user directory maintenance.
func NewUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the user directory",
	}
	cmd.AddCommand(newUsersAddCommand(opts))
	return cmd
}

func newUsersAddCommand(opts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add ID NAME",
		Short: "Add or rename a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveUser(ctx, sqlite.User{ID: args[0], Name: args[1], Email: email}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved user %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	return cmd
}
