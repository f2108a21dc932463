package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize profiles and themes with the server",
		Long:  "Pull the signed-in user's profiles, themes and onboarding state into local preferences, or push local ones with --push.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			push, _ := cmd.Flags().GetBool("push")
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				if push {
					if err := app.PushPreferences(ctx); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Preferences pushed")
					return nil
				}
				if err := app.SyncFromServer(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Preferences pulled")
				return nil
			})
		},
	}
	cmd.Flags().Bool("push", false, "send local preferences instead of pulling")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the debug listener (/health, /state/*, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				return app.Serve(ctx)
			})
		},
	}
}
