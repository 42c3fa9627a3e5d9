package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-dog-catalog/internal/cache"
	"github.com/tbourn/go-dog-catalog/internal/config"
	httpapi "github.com/tbourn/go-dog-catalog/internal/http"
	"github.com/tbourn/go-dog-catalog/internal/observability"
	"github.com/tbourn/go-dog-catalog/internal/repo"
	"github.com/tbourn/go-dog-catalog/internal/services"
	"github.com/tbourn/go-dog-catalog/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
			if err != nil {
				return fmt.Errorf("serve: tracing: %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownOTel(sctx); err != nil {
					log.Warn().Err(err).Msg("otel shutdown")
				}
			}()

			backend, jobs, closeBackend, err := newCacheBackend(cfg.Cache)
			if err != nil {
				return fmt.Errorf("serve: cache: %w", err)
			}
			defer closeBackend.Close()

			c := cache.New(backend, cache.WithTTL(cfg.Cache.TTL), cache.WithPrefix(cfg.Cache.Prefix))
			svc := services.NewCatalogService(store.NewSeeded(), c)

			r := newEngine()
			httpapi.RegisterRoutes(r, svc, cfg)

			log.Info().
				Str("cache_backend", cfg.Cache.Backend).
				Dur("cache_ttl", cfg.Cache.TTL).
				Str("base_path", cfg.APIBasePath).
				Bool("swagger", cfg.SwaggerEnabled).
				Msg("catalog ready")

			return runServer(ctx, "catalog", newServer(cfg.Port, r), jobs...)
		},
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// newCacheBackend builds the configured cache backend. For sqlite it also
// returns the pruning job and a closer for the database handle.
func newCacheBackend(cc config.CacheConfig) (cache.Backend, []func(context.Context) error, io.Closer, error) {
	noop := closerFunc(func() error { return nil })

	switch cc.Backend {
	case config.CacheSQLite:
		db, err := repo.OpenSQLite(cc.DBPath)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := repo.AutoMigrate(db); err != nil {
			return nil, nil, noop, err
		}
		// The store is re-seeded on every start, so rows from a previous run
		// would shadow it.
		if _, err := repo.PurgeCacheEntries(context.Background(), db); err != nil {
			return nil, nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, noop, err
		}
		b := cache.NewSQLiteBackend(db)
		prune := func(ctx context.Context) error {
			b.RunPruner(ctx, cc.PruneInterval)
			return nil
		}
		return b, []func(context.Context) error{prune}, sqlDB, nil
	default:
		return cache.NewMemoryBackend(), nil, noop, nil
	}
}
