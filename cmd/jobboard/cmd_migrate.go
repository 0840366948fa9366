package main

import (
	"github.com/goliatone/go-jobboard/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE:  cmdMigrate,
	}
}

func cmdMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer db.Close()

	if err := store.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info("schema ready", zap.String("driver", cfg.Database.Driver))
	return nil
}
