package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"feedback-bot/internal/service"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print NPS, sentiment and trend analytics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, repo, cleanup, logger, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			analytics := service.NewAnalyticsService(logger, repo)
			report := map[string]any{}

			summary, err := analytics.NPSSummary(ctx)
			switch {
			case errors.Is(err, service.ErrNoValidFeedback):
				report["analytics"] = map[string]string{"message": "No valid feedback available"}
			case err != nil:
				return err
			default:
				report["analytics"] = summary
			}

			insight, err := analytics.SentimentInsight(ctx)
			switch {
			case errors.Is(err, service.ErrNoValidFeedback):
				report["insights"] = map[string]string{"message": "No valid feedback available"}
			case err != nil:
				return err
			default:
				report["insights"] = insight
			}

			trend, err := analytics.Trend(ctx)
			switch {
			case errors.Is(err, service.ErrNotEnoughData):
				report["trends"] = map[string]string{"trend": "Not enough data"}
			case err != nil:
				return err
			default:
				report["trends"] = trend
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
