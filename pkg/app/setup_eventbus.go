package app

import (
	"context"

	"github.com/wealthdash/wealthdash/pkg/domain/events"
)

// setupEventBus registers the handlers that keep derived data in step with
// balance-changing work.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	logger := a.Deps.Logger.With("component", "eventbus")

	// Cached net worth is stale after any of these
	for _, t := range events.AllTypes() {
		bus.Register(t.String(), a.AccountService.Invalidate)
	}

	bus.Register(
		events.EventTypeResyncRequired.String(),
		func(ctx context.Context, e events.Event) error {
			r, ok := e.(events.ResyncRequired)
			if !ok {
				return nil
			}
			logger.Error("balances need a resync",
				"user_id", r.UserID,
				"accounts", r.AccountIDs,
				"operation", r.Operation,
				"reason", r.Reason,
			)
			return nil
		},
	)
}
