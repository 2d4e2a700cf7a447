package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/cesarmodas/storefront-cart/api/controllers"
	"github.com/cesarmodas/storefront-cart/api/routes"
	"github.com/cesarmodas/storefront-cart/api/validators"
	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/internal/session"
	"github.com/cesarmodas/storefront-cart/internal/snapshot"
	"github.com/cesarmodas/storefront-cart/pkg/config"
	"github.com/cesarmodas/storefront-cart/pkg/db"
	"github.com/cesarmodas/storefront-cart/pkg/logger"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
	"github.com/cesarmodas/storefront-cart/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-cart"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-cart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	snapshots, pingers, cleanup, err := buildSnapshotStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap snapshot storage", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)

	sessions, err := session.NewManager(session.ManagerParams{
		Snapshots: snapshots,
		Config:    cfg,
		Logger:    logg,
		Metrics:   cartMetrics,
		Validate:  validators.Validate(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"snapshot_driver": cfg.Snapshot.Driver,
	})
	logg.Info(ctx, "starting storefront cart server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, sessions, registry, pingers...),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildSnapshotStore wires the configured snapshot driver plus whatever
// health pingers and shutdown hooks it needs.
func buildSnapshotStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cart.SnapshotStore, []controllers.Pinger, func(), error) {
	noop := func() {}

	switch cfg.Snapshot.Driver {
	case config.SnapshotDriverMemory:
		return snapshot.NewMemory(), nil, noop, nil

	case config.SnapshotDriverFile:
		store, err := snapshot.NewFile(cfg.Snapshot.FileDir)
		if err != nil {
			return nil, nil, noop, err
		}
		return store, nil, noop, nil

	case config.SnapshotDriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, noop, err
		}
		store, err := snapshot.NewRedis(client, cfg.Session.TTL)
		if err != nil {
			return nil, nil, noop, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}
		return store, []controllers.Pinger{client}, cleanup, nil

	case config.SnapshotDriverDB:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, noop, err
		}
		store, err := snapshot.NewDB(client.DB())
		if err != nil {
			_ = client.Close()
			return nil, nil, noop, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		return store, []controllers.Pinger{client}, cleanup, nil
	}

	return nil, nil, noop, fmt.Errorf("unknown snapshot driver %q", cfg.Snapshot.Driver)
}
