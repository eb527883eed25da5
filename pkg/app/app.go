// Package app assembles the services from the infrastructure dependencies.
package app

import (
	"fmt"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/service/account"
	"github.com/wealthdash/wealthdash/pkg/service/analytics"
	"github.com/wealthdash/wealthdash/pkg/service/auth"
	"github.com/wealthdash/wealthdash/pkg/service/category"
	"github.com/wealthdash/wealthdash/pkg/service/transaction"
	"github.com/wealthdash/wealthdash/pkg/service/user"
)

type App struct {
	Deps               *config.Deps
	Config             *config.App
	AuthService        *auth.Service
	UserService        *user.Service
	AccountService     *account.Service
	TransactionService *transaction.Service
	CategoryService    *category.Service
	AnalyticsService   *analytics.Service
}

// New builds every service and registers the event handlers on the bus.
func New(deps *config.Deps) (*App, error) {
	cfg := deps.Config
	authSvc, err := auth.NewFromConfig(deps.Uow, cfg.Auth, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	var accountOpts []account.Option
	if cfg.Cache != nil {
		accountOpts = append(accountOpts, account.WithSummaryTTL(cfg.Cache.TTL))
	}
	enforceFunds := cfg.Reconcile != nil && cfg.Reconcile.EnforceFunds

	app := &App{
		Deps:        deps,
		Config:      cfg,
		AuthService: authSvc,
		UserService: user.New(deps.Uow, deps.Logger),
		AccountService: account.New(
			deps.Uow,
			deps.EventBus,
			deps.Summaries,
			deps.Logger,
			accountOpts...,
		),
		TransactionService: transaction.New(
			deps.Uow,
			deps.EventBus,
			deps.Logger,
			transaction.WithFundsCheck(enforceFunds),
		),
		CategoryService:  category.New(deps.Uow, deps.Logger),
		AnalyticsService: analytics.New(deps.Uow, deps.Logger),
	}
	app.setupEventBus()
	return app, nil
}
