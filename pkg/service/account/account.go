// Package account manages the accounts a user holds money in and the
// aggregates derived from their balances.
//
// Balances are only written here when an account is opened or resynced.
// Every other balance change goes through the transaction service.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/wealthdash/wealthdash/pkg/cache"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/events"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/eventbus"
	"github.com/wealthdash/wealthdash/pkg/mapper"
	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
)

// DefaultSummaryTTL is how long a cached net worth stays valid when no TTL is configured.
const DefaultSummaryTTL = 5 * time.Minute

// Service provides account management, net worth and balance verification.
type Service struct {
	uow       repository.UnitOfWork
	bus       eventbus.Bus
	summaries cache.SummaryCache
	ttl       time.Duration
	logger    *slog.Logger
	flight    singleflight.Group
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSummaryTTL sets the lifetime of cached summaries.
func WithSummaryTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. summaries may be nil, in which case net worth is
// computed on every call.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	summaries cache.SummaryCache,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		uow:       uow,
		bus:       bus,
		summaries: summaries,
		ttl:       DefaultSummaryTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams describes a new account. For a credit card Amount is the
// available credit, otherwise it is the opening balance.
type CreateParams struct {
	Name        string
	Type        account.Type
	Amount      decimal.Decimal
	CreditLimit decimal.Decimal
}

// UpdateParams carries the optional account changes.
type UpdateParams struct {
	Name        *string
	CreditLimit *decimal.Decimal
}

// CreateAccount opens an account for the user.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, p CreateParams) (a *account.Account, err error) {
	logger := s.logger.With("user_id", userID, "type", p.Type)
	logger.Info("CreateAccount started")

	a, err = account.New().
		WithUserID(userID).
		WithName(p.Name).
		WithType(p.Type).
		WithAmount(p.Amount).
		WithCreditLimit(p.CreditLimit).
		WithCreatedAt(s.now()).
		Build()
	if err != nil {
		logger.Warn("CreateAccount failed: domain error", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, mapper.MapAccountToCreateDTO(a))
	})
	if err != nil {
		logger.Error("CreateAccount failed: repo create error", "error", err)
		return nil, err
	}

	s.changed(ctx, logger, userID, "create", a.ID)
	logger.Info("CreateAccount successful", "account_id", a.ID, "balance", a.Balance)
	return a, nil
}

// GetAccount returns one of the user's accounts.
func (s *Service) GetAccount(ctx context.Context, userID, id uuid.UUID) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = loadOwned(ctx, repo, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccounts returns the user's accounts in creation order.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) (accounts []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
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
	return accounts, nil
}

// UpdateAccount renames an account or changes a card's credit limit.
// The balance is never touched.
func (s *Service) UpdateAccount(ctx context.Context, userID, id uuid.UUID, p UpdateParams) (a *account.Account, err error) {
	logger := s.logger.With("user_id", userID, "account_id", id)
	logger.Info("UpdateAccount started")

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = loadOwned(ctx, repo, userID, id)
		if err != nil {
			return err
		}

		var update dto.AccountUpdate
		if p.Name != nil {
			name, err := account.ValidateName(*p.Name)
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			a.Name = name
			update.Name = &name
		}
		if p.CreditLimit != nil {
			if err := a.SetCreditLimit(*p.CreditLimit); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			update.CreditLimit = &a.CreditLimit
		}
		if update.Name == nil && update.CreditLimit == nil {
			return nil
		}
		a.UpdatedAt = s.now()
		return repo.Update(ctx, id, update)
	})
	if err != nil {
		logger.Warn("UpdateAccount failed", "error", err)
		return nil, err
	}

	s.changed(ctx, logger, userID, "update", id)
	logger.Info("UpdateAccount successful")
	return a, nil
}

// DeleteAccount removes an account that no transaction references.
func (s *Service) DeleteAccount(ctx context.Context, userID, id uuid.UUID) error {
	logger := s.logger.With("user_id", userID, "account_id", id)
	logger.Info("DeleteAccount started")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := loadOwned(ctx, repo, userID, id); err != nil {
			return err
		}
		n, err := txRepo.CountByAccount(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d transactions", account.ErrAccountInUse, n)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		logger.Warn("DeleteAccount failed", "error", err)
		return err
	}

	s.changed(ctx, logger, userID, "delete", id)
	logger.Info("DeleteAccount successful")
	return nil
}

func (s *Service) changed(ctx context.Context, logger *slog.Logger, userID uuid.UUID, action string, ids ...uuid.UUID) {
	if s.bus == nil {
		s.forget(ctx, userID)
		return
	}
	err := s.bus.Emit(ctx, events.AccountChanged{
		UserEvent: events.UserEvent{UserID: userID, AccountIDs: ids},
		Action:    action,
	})
	if err != nil {
		logger.Error("event emit failed", "error", err)
	}
}

func loadOwned(ctx context.Context, repo accountrepo.Repository, userID, id uuid.UUID) (*account.Account, error) {
	row, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a := mapper.MapAccountReadToDomain(row)
	if a.Owned(userID) != nil {
		return nil, account.ErrAccountNotFound
	}
	return a, nil
}

func listAccounts(ctx context.Context, repo accountrepo.Repository, userID uuid.UUID) ([]*account.Account, error) {
	rows, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapper.MapAccountReadToDomain(r))
	}
	return out, nil
}
