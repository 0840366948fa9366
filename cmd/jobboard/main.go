package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-jobboard/internal/config"
	"github.com/goliatone/go-jobboard/internal/logging"
	"github.com/goliatone/go-jobboard/store"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var cpath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "jobboard",
		Short:         "Users and jobs JSON API with a read-through response cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.PersistentFlags().StringVar(&cpath, "config", "", "path to a config file (yaml, json or toml)")

	c.AddCommand(serveCmd())
	c.AddCommand(migrateCmd())
	return c
}

// setup loads configuration, builds the logger and opens the database.
func setup() (config.Config, *zap.Logger, *bun.DB, error) {
	cfg, err := config.Load(cpath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		_ = logger.Sync()
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, db, nil
}
