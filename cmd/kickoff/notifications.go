package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/models"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Local notification inbox",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add an unread notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var payload models.NotificationPayload
			payload.Type, _ = cmd.Flags().GetString("type")
			payload.Title, _ = cmd.Flags().GetString("title")
			payload.Message, _ = cmd.Flags().GetString("message")
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				n := app.Notifications.AddNotification(payload)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
	add.Flags().String("type", "info", "notification type")
	add.Flags().String("title", "", "title")
	add.Flags().String("message", "", "message body")
	_ = add.MarkFlagRequired("title")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show notifications, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					out := cmd.OutOrStdout()
					for _, n := range app.Notifications.List() {
						_, _ = fmt.Fprintf(out, "%-6s %s %s\n", n.State, n.ID, n.Title)
					}
					_, _ = fmt.Fprintf(out, "%d unread\n", app.Notifications.UnreadCount())
					return nil
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark a notification as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Notifications.MarkAsRead(args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Notifications.MarkAllAsRead()
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Delete a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Notifications.Remove(args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every notification",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Notifications.Clear()
					return nil
				})
			},
		},
	)
	return cmd
}
