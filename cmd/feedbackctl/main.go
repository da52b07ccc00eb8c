package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedback-bot/internal/config"
	"feedback-bot/internal/db"
	"feedback-bot/internal/repository"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "feedbackctl",
		Short:         "Operator tools for the feedback store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore carga la config y abre el mismo store que usa la API.
func openStore(ctx context.Context) (*config.Config, repository.FeedbackRepository, func(), *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	repo, closeFn, err := db.OpenFeedbackStore(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		closeFn()
		_ = logger.Sync()
	}
	return cfg, repo, cleanup, logger, nil
}
