package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-jobboard/api"
	"github.com/goliatone/go-jobboard/pkg/di"
	"github.com/goliatone/go-jobboard/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the HTTP API",
		Long: `Run migrations and serve the HTTP API.

Routes:
  GET    /healthz
  GET    /api/v1/{users,jobs}?page=&per_page=
  POST   /api/v1/{users,jobs}
  GET    /api/v1/{users,jobs}/{id}
  PATCH  /api/v1/{users,jobs}/{id}   (PUT is accepted too)
  DELETE /api/v1/{users,jobs}/{id}

The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: cmdServe,
	}
}

func cmdServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	container, err := di.NewContainer(db, cfg.Cache.CacheConfig(), logger)
	if err != nil {
		return err
	}
	defer container.Close()

	srv := api.NewServer(api.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, container.Handler(), logger.Named("http"))

	logger.Info("starting",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Backend),
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
