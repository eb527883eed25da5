package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/cache"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/events"
	"github.com/wealthdash/wealthdash/pkg/repository"
)

// NetWorth returns the sum of the user's balances. Results are cached per
// user until a balance-changing event invalidates them; concurrent misses
// for the same user share one computation.
func (s *Service) NetWorth(ctx context.Context, userID uuid.UUID) (*cache.Summary, error) {
	logger := s.logger.With("user_id", userID)
	if s.summaries != nil {
		cached, err := s.summaries.Get(ctx, userID)
		if err != nil {
			logger.Warn("summary cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	v, err, shared := s.flight.Do(userID.String(), func() (any, error) {
		return s.computeSummary(ctx, logger, userID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("net worth computation shared")
	}
	sum := *v.(*cache.Summary)
	return &sum, nil
}

func (s *Service) computeSummary(ctx context.Context, logger *slog.Logger, userID uuid.UUID) (*cache.Summary, error) {
	var accounts []*account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = listAccounts(ctx, repo, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	sum := &cache.Summary{
		NetWorth:     account.NetWorth(accounts),
		AccountCount: len(accounts),
		ComputedAt:   s.now(),
	}
	if s.summaries != nil {
		if err := s.summaries.Set(ctx, userID, sum, s.ttl); err != nil {
			logger.Warn("summary cache write failed", "error", err)
		}
	}
	return sum, nil
}

// Invalidate drops the cached summary of the event's owner. It is
// registered on the event bus for every balance-changing event.
func (s *Service) Invalidate(ctx context.Context, e events.Event) error {
	s.forget(ctx, e.Owner())
	return nil
}

func (s *Service) forget(ctx context.Context, userID uuid.UUID) {
	if s.summaries == nil {
		return
	}
	if err := s.summaries.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("summary cache invalidation failed", "user_id", userID, "error", err)
	}
}
