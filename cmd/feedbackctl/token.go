package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"feedback-bot/internal/config"
	"feedback-bot/internal/service"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin bearer token for the read endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			subject, _ := cmd.Flags().GetString("subject")
			token, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL()).IssueAdminToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringP("subject", "s", "admin", "Token subject")

	return cmd
}
