package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/models"
	"time"
)

func newSponsoringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sponsoring",
		Short: "Per-profile sponsoring preferences",
	}

	set := &cobra.Command{
		Use:   "set <profile-id>",
		Short: "Store sponsoring preferences for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefs models.SponsoringPrefs
			prefs.AutoSponsoringEnabled, _ = cmd.Flags().GetBool("auto")
			prefs.PricePerDoc, _ = cmd.Flags().GetFloat64("price")
			prefs.MaxSponsorsPerDoc, _ = cmd.Flags().GetInt("max")
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				return app.Preferences.SetProfileSponsoringPrefs(args[0], prefs)
			})
		},
	}
	set.Flags().Bool("auto", false, "enable automatic sponsoring")
	set.Flags().Float64("price", 0, "price per document")
	set.Flags().Int("max", 1, "maximum sponsors per document")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <profile-id>",
			Short: "Show sponsoring preferences, defaults included",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					return printJSON(cmd, app.Preferences.GetProfileSponsoringPrefs(args[0]))
				})
			},
		},
		set,
	)
	return cmd
}

func newSocialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Social platform connections per profile",
	}

	connect := &cobra.Command{
		Use:   "connect <profile-id> <meta|linkedin>",
		Short: "Store a connection, replacing the previous one for that platform",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.SocialPlatform(args[1]).Valid() {
				return fmt.Errorf("unknown platform %q", args[1])
			}
			now := time.Now().UTC()
			conn := models.SocialConnection{
				Platform:    models.SocialPlatform(args[1]),
				Connected:   true,
				ConnectedAt: &now,
			}
			if id, _ := cmd.Flags().GetString("account-id"); id != "" {
				name, _ := cmd.Flags().GetString("account-name")
				kind, _ := cmd.Flags().GetString("account-type")
				conn.Accounts = []models.SocialAccount{{ID: id, Name: name, Type: kind, IsDefault: true}}
			}
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				app.Preferences.SetSocialConnection(args[0], conn)
				return nil
			})
		},
	}
	connect.Flags().String("account-id", "", "default account id")
	connect.Flags().String("account-name", "", "default account name")
	connect.Flags().String("account-type", "page", "default account type")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <profile-id>",
			Short: "Show the connections of a profile",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					return printJSON(cmd, app.Preferences.GetSocialConnections(args[0]))
				})
			},
		},
		connect,
		&cobra.Command{
			Use:   "disconnect <profile-id> <meta|linkedin>",
			Short: "Remove the connection for one platform",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Preferences.RemoveSocialConnection(args[0], models.SocialPlatform(args[1]))
					return nil
				})
			},
		},
	)
	return cmd
}
