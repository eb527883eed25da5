// Package initializer builds the infrastructure a WealthDash process runs on.
package initializer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wealthdash/wealthdash/infra"
	infracache "github.com/wealthdash/wealthdash/infra/cache"
	infraeventbus "github.com/wealthdash/wealthdash/infra/eventbus"
	infrarepository "github.com/wealthdash/wealthdash/infra/repository"
	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/cache"
	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/repository"
)

// InitializeDependencies opens the store, event bus and summary cache
// selected by cfg. Callers release them with Deps.Close.
func InitializeDependencies(cfg *config.App) (*config.Deps, error) {
	logger := SetupLogger(cfg.Log)
	return initialize(cfg, logger)
}

func initialize(cfg *config.App, logger *slog.Logger) (*config.Deps, error) {
	deps := &config.Deps{
		Logger:   logger,
		Config:   cfg,
		EventBus: infraeventbus.NewWithMemory(logger),
	}
	var closers []func() error

	uow, closeStore, err := initStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	deps.Uow = uow
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	summaries, closeCache := initSummaryCache(cfg, logger)
	deps.Summaries = summaries
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	deps.Close = func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}
	return deps, nil
}

func initStore(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, func() error, error) {
	if cfg.DB == nil {
		return nil, nil, errors.New("database config is missing")
	}
	if infra.IsMemoryURL(cfg.DB.Url) {
		logger.Warn("Using in-memory store; data is lost on exit")
		return memory.NewUoW(memory.NewStore()), nil, nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database ready", "dialect", db.Dialector.Name())
	return infrarepository.NewUoW(db), sqlDB.Close, nil
}

// initSummaryCache prefers Redis when configured and reachable and falls
// back to the in-process cache otherwise.
func initSummaryCache(cfg *config.App, logger *slog.Logger) (cache.SummaryCache, func() error) {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return infracache.NewMemoryCache(), nil
	}
	rc, err := infracache.NewRedisCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
	if err != nil {
		logger.Warn("Invalid Redis URL; using in-memory summary cache", "error", err)
		return infracache.NewMemoryCache(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable; using in-memory summary cache", "error", err)
		_ = rc.Close()
		return infracache.NewMemoryCache(), nil
	}
	logger.Info("Summary cache backed by Redis")
	return rc, rc.Close
}

// CloseQuietly logs a failed Close instead of returning it.
func CloseQuietly(deps *config.Deps) {
	if deps == nil || deps.Close == nil {
		return
	}
	if err := deps.Close(); err != nil {
		deps.Logger.Error("Failed to release resources", "error", err)
	}
}
