package config

import (
	"log/slog"

	"github.com/wealthdash/wealthdash/pkg/cache"
	"github.com/wealthdash/wealthdash/pkg/eventbus"
	"github.com/wealthdash/wealthdash/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow       repository.UnitOfWork
	EventBus  eventbus.Bus
	Summaries cache.SummaryCache
	Logger    *slog.Logger
	Config    *App
	// Close releases the store and cache connections.
	Close func() error
}
