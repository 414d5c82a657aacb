package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/csvtable/internal/config"
	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/JonMunkholm/csvtable/internal/logging"
	"github.com/JonMunkholm/csvtable/internal/web"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"parser", cfg.Table.Parser,
		"sort_column", cfg.Table.SortColumn,
		"max_rows", cfg.Table.MaxRows,
		"reapply_filter", cfg.Table.ReapplyFilter,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	loader, err := core.NewLoader(cfg.Table.Parser)
	if err != nil {
		slog.Error("failed to create loader", "error", err)
		os.Exit(1)
	}

	service := core.NewService(core.Options{
		Controller: core.ControllerOptions{
			SortColumn:    cfg.Table.SortColumn,
			ReapplyFilter: cfg.Table.ReapplyFilter,
			Loader:        loader,
			MaxRows:       cfg.Table.MaxRows,
		},
		MaxFileSize:        cfg.Upload.MaxFileSize,
		MaxConcurrentLoads: cfg.Upload.MaxConcurrent,
		MaxLoadWait:        cfg.Upload.MaxWaitTime,
		IdleTimeout:        cfg.Session.IdleTimeout,
	})

	server := web.NewServer(service, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		return server.Start()
	})

	g.Go(func() error {
		return service.StartSweeper(gctx, cfg.Session.SweepInterval)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for loads to complete", "active", status.Active)
			if err := service.WaitForLoads(shutdownCtx); err != nil {
				slog.Warn("loads did not complete in time", "error", err)
			} else {
				slog.Info("all loads completed")
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
