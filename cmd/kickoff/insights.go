package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"kickoff/internal"
	"kickoff/internal/models"
)

func newInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Publication history and engagement statistics",
	}

	record := &cobra.Command{
		Use:   "record",
		Short: "Record a publication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rec models.PublicationRecord
			rec.DocumentID, _ = cmd.Flags().GetString("document")
			rec.ProfileID, _ = cmd.Flags().GetString("profile")
			platform, _ := cmd.Flags().GetString("platform")
			rec.Platform = models.SocialPlatform(platform)
			rec.SupportType, _ = cmd.Flags().GetString("support")
			rec.ExternalPostID, _ = cmd.Flags().GetString("post-id")
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				saved := app.Insights.RecordPublication(rec)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
				return nil
			})
		},
	}
	record.Flags().String("document", "", "document id")
	record.Flags().String("profile", "", "publishing profile id")
	record.Flags().String("platform", string(models.PlatformMeta), "meta or linkedin")
	record.Flags().String("support", "", "support type")
	record.Flags().String("post-id", "", "post id on the platform")
	_ = record.MarkFlagRequired("document")
	_ = record.MarkFlagRequired("profile")

	update := &cobra.Command{
		Use:   "update <publication-id>",
		Short: "Attach or replace the insights of a publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in models.PublicationInsights
			in.Reach, _ = cmd.Flags().GetInt("reach")
			in.Impressions, _ = cmd.Flags().GetInt("impressions")
			in.Engagement, _ = cmd.Flags().GetFloat64("engagement")
			in.Likes, _ = cmd.Flags().GetInt("likes")
			in.Comments, _ = cmd.Flags().GetInt("comments")
			in.Shares, _ = cmd.Flags().GetInt("shares")
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				app.Insights.UpdatePublicationInsights(args[0], in)
				return nil
			})
		},
	}
	update.Flags().Int("reach", 0, "unique accounts reached")
	update.Flags().Int("impressions", 0, "impressions")
	update.Flags().Float64("engagement", 0, "engagement rate")
	update.Flags().Int("likes", 0, "likes")
	update.Flags().Int("comments", 0, "comments")
	update.Flags().Int("shares", 0, "shares")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show totals, optionally for one profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, _ := cmd.Flags().GetString("profile")
			return withApp(cmd, func(_ context.Context, app *internal.App) error {
				return printJSON(cmd, app.Insights.GetTotalStats(profile))
			})
		},
	}
	stats.Flags().String("profile", "", "restrict to one profile")

	cmd.AddCommand(
		record,
		update,
		stats,
		&cobra.Command{
			Use:   "history <document-id>",
			Short: "Show the publication history of a document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					h, ok := app.Insights.GetDocumentHistory(args[0])
					if !ok {
						return fmt.Errorf("no publications for document %s", args[0])
					}
					return printJSON(cmd, h)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the whole publication history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(_ context.Context, app *internal.App) error {
					app.Insights.ClearHistory()
					return nil
				})
			},
		},
	)
	return cmd
}
