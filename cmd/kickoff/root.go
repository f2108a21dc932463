package main

import (
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/api"
	"kickoff/internal/di"
	"kickoff/internal/structures"
)

// appFactory builds the application container. Tests replace it.
var appFactory = di.InitApp

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kickoff",
		Short:         "Kickoff local state and session manager",
		Long:          "Manage the Kickoff session, profiles, notifications and publication insights stored on this device.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().Bool("debug", false, "strict mode: log silently ignored operations as warnings")

	root.AddCommand(
		newAuthCmd(),
		newProfilesCmd(),
		newSponsoringCmd(),
		newSocialCmd(),
		newNotificationsCmd(),
		newInsightsCmd(),
		newSyncCmd(),
		newServeCmd(),
	)

	return root
}

// withApp builds the app from the global flags, runs fn and flushes state.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *internal.App) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	app, err := appFactory(&structures.CliFlags{ConfigPath: configPath, DebugMode: debug})
	if err != nil {
		return fmt.Errorf("unable to start: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runErr := fn(ctx, app)
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return describe(runErr)
}

// describe turns API errors into a single readable line.
func describe(err error) error {
	apiErr, ok := api.AsApiError(err)
	if !ok {
		return err
	}
	if apiErr.Network() {
		return fmt.Errorf("backend unreachable: %s", apiErr.Message)
	}
	return fmt.Errorf("backend error %d: %s", apiErr.Status, apiErr.Message)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
