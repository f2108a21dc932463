package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/models"
	"kickoff/internal/services"
	"strconv"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage the selected profiles, themes and onboarding state",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show profiles and the active one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					snap := app.Preferences.Snapshot()
					out := cmd.OutOrStdout()
					for i, p := range snap.SelectedProfiles {
						marker := " "
						if i == snap.ActiveProfileIndex {
							marker = "*"
						}
						_, _ = fmt.Fprintf(out, "%s %d %s %s %q\n", marker, i, p.ID, p.Type, p.Name)
					}
					return nil
				})
			},
		},
		newProfileAddCmd(),
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a profile with its sponsoring prefs and social connections",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Preferences.RemoveProfile(args[0])
					return nil
				})
			},
		},
		newProfileUpdateCmd(),
		&cobra.Command{
			Use:   "activate <index>",
			Short: "Select the active profile by position",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", args[0], err)
				}
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Preferences.SetActiveProfileIndex(index)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the profile list with the base profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Preferences.SetSelectedProfiles(nil)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "themes [theme...]",
			Short: "Show or replace the selected themes",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					if len(args) > 0 {
						app.Preferences.SetSelectedThemes(args)
					}
					return printJSON(cmd, app.Preferences.SelectedThemes())
				})
			},
		},
		&cobra.Command{
			Use:   "complete-onboarding",
			Short: "Mark onboarding as done",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Preferences.CompleteOnboarding()
					return nil
				})
			},
		},
	)

	return cmd
}

func profileFromFlags(cmd *cobra.Command) models.UserProfile {
	var p models.UserProfile
	kind, _ := cmd.Flags().GetString("type")
	p.Type = models.ProfileType(kind)
	p.ID, _ = cmd.Flags().GetString("id")
	p.Name, _ = cmd.Flags().GetString("name")
	p.Logo, _ = cmd.Flags().GetString("logo")
	p.ClubID, _ = cmd.Flags().GetString("club-id")
	p.Numero, _ = cmd.Flags().GetString("numero")
	return p
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "équipe, club, district, ligue or sponsor")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("logo", "", "logo url")
	cmd.Flags().String("club-id", "", "owning club id")
	cmd.Flags().String("numero", "", "team number")
}

func newProfileAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := profileFromFlags(cmd)
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				if !app.Preferences.AddProfile(profile) {
					return fmt.Errorf("profile not added: limit of %d reached, duplicate id or unknown type", services.MaxProfiles)
				}
				return nil
			})
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("id", "", "profile id, generated when empty")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := profileFromFlags(cmd)
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				app.Preferences.UpdateProfile(args[0], profile)
				return nil
			})
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().String("id", "", "ignored, the id is kept")
	_ = cmd.Flags().MarkHidden("id")
	return cmd
}
