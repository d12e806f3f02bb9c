package main

import (
	"time"

	"github.com/spf13/cobra"

	appRepos "github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/bootstrap"
	"github.com/yigit/headta/internal/seed"
)

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()
			return bootstrap.RunMigrations(cmd.Context(), e.cfg, e.db, e.logger)
		},
	}
}

func newSeedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the configured default admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()
			return seed.CreateDefaultData(cmd.Context(), appRepos.NewUserRepository(e.db.Pool), bootstrap.AdminSeed(e.cfg), e.logger)
		},
	}
}

func newCleanupTokensCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete expired and long-revoked refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			start := time.Now()
			removed, err := appRepos.NewTokenRepository(e.db.Pool).CleanupExpiredTokens(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(map[string]any{
				"command":     "cleanup-tokens",
				"duration_ms": time.Since(start).Milliseconds(),
				"removed":     removed,
			})
		},
	}
}
