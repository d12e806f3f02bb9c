package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/headta/internal/bootstrap"
	"github.com/yigit/headta/internal/config"
	"github.com/yigit/headta/internal/db"
)

type env struct {
	cfg    *config.Config
	db     *db.PostgresDB
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "headta-admin",
		Short:         "Maintenance tools for the head TA directory",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", bootstrap.DefaultConfigPath, "Path to the YAML configuration file")

	open := func(ctx context.Context) (*env, error) {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return nil, err
		}
		database, err := bootstrap.ConnectDatabase(cfg, lgr)
		if err != nil {
			return nil, err
		}
		return &env{cfg: cfg, db: database, logger: lgr}, nil
	}

	cmd.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newCreateAdminCmd(open),
		newCreatePlaceholderCmd(open),
		newCleanupTokensCmd(open),
		newTreeCmd(open),
	)
	return cmd
}

type opener func(ctx context.Context) (*env, error)

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
