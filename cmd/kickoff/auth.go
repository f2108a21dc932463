package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/models"
	"kickoff/internal/session"
	"time"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and manage the account",
	}

	cmd.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session and preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, app *internal.App) error {
					app.Logout(ctx)
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "me",
			Short: "Show the signed-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, app *internal.App) error {
					user, err := app.Client.Me(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, user)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether a session is stored and when it expires",
			Args:  cobra.NoArgs,
			RunE:  runAuthStatus,
		},
		newChangePasswordCmd(),
		newDeleteAccountCmd(),
		&cobra.Command{
			Use:   "link <provider> <provider-user-id>",
			Short: "Link an OAuth identity to the account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, app *internal.App) error {
					return app.Client.LinkOAuth(ctx, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "unlink <provider>",
			Short: "Unlink an OAuth identity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, app *internal.App) error {
					return app.Client.UnlinkOAuth(ctx, args[0])
				})
			},
		},
	)

	return cmd
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				resp, err := app.Client.Login(ctx, email, password)
				if err != nil {
					return err
				}
				app.Preferences.SyncFromUser(resp.User)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req models.RegisterRequest
			req.Email, _ = cmd.Flags().GetString("email")
			req.Password, _ = cmd.Flags().GetString("password")
			req.Name, _ = cmd.Flags().GetString("name")
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				resp, err := app.Client.Register(ctx, req)
				if err != nil {
					return err
				}
				app.Preferences.SyncFromUser(resp.User)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", resp.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	cmd.Flags().String("name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, app *internal.App) error {
		out := cmd.OutOrStdout()
		pair := app.Tokens.Get(ctx)
		if pair == nil {
			_, _ = fmt.Fprintln(out, "Not logged in")
			return nil
		}

		info, err := session.Inspect(pair.AccessToken)
		if err != nil {
			_, _ = fmt.Fprintln(out, "Logged in (opaque access token)")
			return nil
		}
		state := "valid"
		if info.Expired(time.Now()) {
			state = "expired, will refresh on next request"
		}
		_, _ = fmt.Fprintf(out, "Logged in as %s, access token %s", info.Subject, state)
		if !info.ExpiresAt.IsZero() {
			_, _ = fmt.Fprintf(out, " (expires %s)", info.ExpiresAt.Format(time.RFC3339))
		}
		_, _ = fmt.Fprintln(out)
		return nil
	})
}

func newChangePasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, _ := cmd.Flags().GetString("current")
			next, _ := cmd.Flags().GetString("new")
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				return app.Client.ChangePassword(ctx, current, next)
			})
		},
	}
	cmd.Flags().String("current", "", "current password")
	cmd.Flags().String("new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func newDeleteAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account on the server and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errors.New("refusing to delete the account without --yes")
			}
			return withApp(cmd, func(ctx context.Context, app *internal.App) error {
				if err := app.Client.DeleteAccount(ctx); err != nil {
					return err
				}
				app.Preferences.ResetPreferences()
				app.Insights.ClearHistory()
				app.Notifications.Clear()
				return nil
			})
		},
	}
	cmd.Flags().Bool("yes", false, "confirm deletion")
	return cmd
}
