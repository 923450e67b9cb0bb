// Package app wires configuration into a ready QueryService.
package app

import (
	"context"
	"fmt"
	"log"

	"coinquery/internal/archive"
	"coinquery/internal/cache"
	"coinquery/internal/catalog"
	"coinquery/internal/config"
	"coinquery/internal/db"
	"coinquery/internal/provider"
	"coinquery/internal/repository"
	"coinquery/internal/service"

	"go.opentelemetry.io/otel/trace"
)

var (
	openPostgresFunc = db.Open
	openRedisFunc    = cache.Open
)

// NewQueryService builds the service described by cfg. The archive lives in
// Postgres when DATABASE_URL is set and in a local file otherwise; Redis is
// used for live prices when reachable. The returned cleanup releases both.
// The service is not connected yet.
func NewQueryService(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*service.QueryService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store archive.Store
	pool, err := openPostgresFunc(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, cleanup, err
	}
	if pool != nil {
		closers = append(closers, pool.Close)
		repo := repository.NewArchiveRepository(pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("run migrations: %w", err)
		}
		store = repo
	} else {
		fs, err := archive.OpenFileStore(cfg.ArchivePath())
		if err != nil {
			return nil, cleanup, err
		}
		store = fs
	}

	var rc service.RedisClient
	client, err := openRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("price cache unavailable, continuing without it: %v", err)
	} else if client != nil {
		closers = append(closers, func() { _ = client.Close() })
		rc = client
	}

	gateway := provider.NewCoinGeckoGateway(tracer, cfg.CoinGeckoBaseURL, cfg.Timeout(), cfg.Debug)
	catalogs := catalog.NewStore(tracer, cfg.CatalogPath(), gateway, cfg.DYM)

	svc := service.New(tracer, gateway, catalogs, store, rc, service.Options{
		Autofind:      cfg.Autofind,
		DYM:           cfg.DYM,
		Debug:         cfg.Debug,
		PriceCacheTTL: cfg.PriceCacheTTL(),
	})
	return svc, cleanup, nil
}
