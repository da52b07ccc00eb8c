package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedback-bot/internal/export"
	"feedback-bot/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored record to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, repo, cleanup, logger, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.ExportPath
			}

			list, err := service.NewFeedbackService(logger, repo, nil, nil).ListAll(ctx)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteCSV(f, list.Records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			logger.Info("export written", zap.String("path", out), zap.Int("records", list.Count))
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Output path (default EXPORT_PATH)")

	return cmd
}
