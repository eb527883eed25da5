// Package transaction reconciles account balances with the transactions a user
// creates, edits and deletes.
//
// Every flow computes a balance effect from the domain, applies it to the
// affected accounts and writes the transaction row last. Stores that cannot
// roll back get an explicit compensation pass (see saga.go).
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/events"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/eventbus"
	"github.com/wealthdash/wealthdash/pkg/mapper"
	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
	transactionrepo "github.com/wealthdash/wealthdash/pkg/repository/transaction"
	categorysvc "github.com/wealthdash/wealthdash/pkg/service/category"
)

var (
	// ErrOperationInProgress is returned when the same entity already has a pending create, edit or delete.
	ErrOperationInProgress = fmt.Errorf("%w: operation already in progress", domain.ErrConflict)

	// ErrResyncRequired is returned when a failed flow could not undo its balance writes.
	ErrResyncRequired = errors.New("account balances may be out of sync, run a resync")
)

// MaxListLimit caps the number of rows a single listing returns.
const MaxListLimit = 1000

// Service is the single entry point for balance-changing transaction work.
type Service struct {
	uow          repository.UnitOfWork
	bus          eventbus.Bus
	logger       *slog.Logger
	enforceFunds bool
	now          func() time.Time
	guard        *inflight
}

// Option configures a Service.
type Option func(*Service)

// WithFundsCheck rejects Expense and Transfer debits that would take a Bank
// or Cash account below zero. Credit cards are never checked.
func WithFundsCheck(enabled bool) Option {
	return func(s *Service) { s.enforceFunds = enabled }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(uow repository.UnitOfWork, bus eventbus.Bus, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		uow:    uow,
		bus:    bus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		guard:  &inflight{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a new transaction and applies its effect.
// A zero draft date means today.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, d transaction.Draft) (*transaction.Transaction, error) {
	logger := s.logger.With("user_id", userID, "type", d.Type, "account_id", d.AccountID)
	logger.Info("CreateTransaction started")

	if d.Date.IsZero() {
		d.Date = s.now()
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		logger.Warn("CreateTransaction failed: invalid draft", "error", err)
		return nil, err
	}
	eff, err := d.Effect()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	release, err := s.guard.acquire(createKey(userID, d.AccountID))
	if err != nil {
		logger.Warn("CreateTransaction rejected", "error", err)
		return nil, err
	}
	defer release()

	var (
		tx *transaction.Transaction
		sg *saga
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		catRepo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}

		accounts, err := ownedAccounts(ctx, accRepo, userID, eff.Accounts()...)
		if err != nil {
			return err
		}
		if err := s.checkFunds(accounts, eff.Deltas()); err != nil {
			return err
		}
		if d.Category, err = categorysvc.Resolve(ctx, catRepo, userID, d); err != nil {
			return err
		}
		if d.Type == transaction.Transfer && d.Description == "" {
			d.Description = "Transfer to " + accounts[*d.TargetAccountID].Name
		}

		sg = newSaga(accRepo, uow.Transactional(), logger)
		if err := sg.apply(ctx, eff.Deltas()); err != nil {
			return sg.abort(ctx, err)
		}

		now := s.now()
		tx = &transaction.Transaction{
			ID:              uuid.New(),
			UserID:          userID,
			AccountID:       d.AccountID,
			TargetAccountID: d.TargetAccountID,
			Amount:          d.Amount,
			Type:            d.Type,
			Category:        d.Category,
			Necessity:       d.Necessity,
			Description:     d.Description,
			Date:            d.Date,
			Emoji:           d.Emoji,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := txRepo.Create(ctx, mapper.MapTransactionToCreateDTO(tx)); err != nil {
			return sg.abort(ctx, fmt.Errorf("insert transaction: %w", err))
		}
		return nil
	})
	if err != nil {
		s.failed(ctx, logger, "create", userID, sg, err)
		return nil, err
	}

	s.emit(ctx, logger, events.TransactionCreated{
		UserEvent:     events.UserEvent{UserID: userID, AccountIDs: eff.Accounts()},
		TransactionID: tx.ID,
	})
	logger.Info("CreateTransaction successful", "transaction_id", tx.ID)
	return tx, nil
}

// Edit applies changes to a stored transaction. Balances move by the
// difference between the new and the old effect, across every account
// either version touches.
func (s *Service) Edit(ctx context.Context, userID, id uuid.UUID, c transaction.Changes) (*transaction.Transaction, error) {
	logger := s.logger.With("user_id", userID, "transaction_id", id)
	logger.Info("EditTransaction started")

	release, err := s.guard.acquire(transactionKey(id))
	if err != nil {
		logger.Warn("EditTransaction rejected", "error", err)
		return nil, err
	}
	defer release()

	var (
		updated *transaction.Transaction
		touched []uuid.UUID
		sg      *saga
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		catRepo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}

		old, err := loadOwned(ctx, txRepo, userID, id)
		if err != nil {
			return err
		}
		d := old.Apply(c)
		if err := d.Validate(); err != nil {
			return err
		}
		oldEff, err := old.Effect()
		if err != nil {
			return err
		}
		newEff, err := d.Effect()
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}

		touched = union(oldEff.Accounts(), newEff.Accounts())
		accounts, err := ownedAccounts(ctx, accRepo, userID, touched...)
		if err != nil {
			return err
		}
		net := newEff.Minus(oldEff)
		if err := s.checkFunds(accounts, net); err != nil {
			return err
		}
		if d.Category, err = categorysvc.Resolve(ctx, catRepo, userID, d); err != nil {
			return err
		}
		if d.Type == transaction.Transfer && d.Description == "" {
			d.Description = "Transfer to " + accounts[*d.TargetAccountID].Name
		}

		sg = newSaga(accRepo, uow.Transactional(), logger)
		if err := sg.apply(ctx, net); err != nil {
			return sg.abort(ctx, err)
		}
		if err := txRepo.Update(ctx, id, mapper.MapDraftToUpdateDTO(d)); err != nil {
			return sg.abort(ctx, fmt.Errorf("update transaction: %w", err))
		}

		updated = &transaction.Transaction{
			ID:              old.ID,
			UserID:          old.UserID,
			AccountID:       d.AccountID,
			TargetAccountID: d.TargetAccountID,
			Amount:          d.Amount,
			Type:            d.Type,
			Category:        d.Category,
			Necessity:       d.Necessity,
			Description:     d.Description,
			Date:            d.Date,
			Emoji:           d.Emoji,
			CreatedAt:       old.CreatedAt,
			UpdatedAt:       s.now(),
		}
		logger.Debug("EditTransaction reconciled", "deltas", len(net))
		return nil
	})
	if err != nil {
		s.failed(ctx, logger, "edit", userID, sg, err)
		return nil, err
	}

	s.emit(ctx, logger, events.TransactionEdited{
		UserEvent:     events.UserEvent{UserID: userID, AccountIDs: touched},
		TransactionID: id,
	})
	logger.Info("EditTransaction successful")
	return updated, nil
}

// Delete reverses a transaction's effect and removes it. A transfer's
// target credit is reversed before its source debit.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	logger := s.logger.With("user_id", userID, "transaction_id", id)
	logger.Info("DeleteTransaction started")

	release, err := s.guard.acquire(transactionKey(id))
	if err != nil {
		logger.Warn("DeleteTransaction rejected", "error", err)
		return err
	}
	defer release()

	var (
		touched []uuid.UUID
		sg      *saga
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		old, err := loadOwned(ctx, txRepo, userID, id)
		if err != nil {
			return err
		}
		eff, err := old.Effect()
		if err != nil {
			return err
		}
		touched = eff.Accounts()
		rev := eff.Reverse()
		steps := make([]transaction.Delta, 0, 2)
		if rev.Target != nil {
			steps = append(steps, *rev.Target)
		}
		steps = append(steps, rev.Source)

		sg = newSaga(accRepo, uow.Transactional(), logger)
		if err := sg.apply(ctx, steps); err != nil {
			return sg.abort(ctx, err)
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return sg.abort(ctx, fmt.Errorf("delete transaction: %w", err))
		}
		return nil
	})
	if err != nil {
		s.failed(ctx, logger, "delete", userID, sg, err)
		return err
	}

	s.emit(ctx, logger, events.TransactionDeleted{
		UserEvent:     events.UserEvent{UserID: userID, AccountIDs: touched},
		TransactionID: id,
	})
	logger.Info("DeleteTransaction successful")
	return nil
}

// Get returns one of the user's transactions with its account name.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (tx *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && tx.UserID != userID) {
			return transaction.ErrTransactionNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// List returns the user's transactions, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) (txs []*dto.TransactionRead, err error) {
	filter.UserID = userID
	if filter.Limit <= 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.List(ctx, filter)
		return err
	})
	return txs, err
}

func (s *Service) checkFunds(accounts map[uuid.UUID]*account.Account, deltas []transaction.Delta) error {
	if !s.enforceFunds {
		return nil
	}
	for _, d := range deltas {
		if !d.Amount.IsNegative() {
			continue
		}
		if err := accounts[d.AccountID].CanDebit(d.Amount.Neg()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) failed(ctx context.Context, logger *slog.Logger, op string, userID uuid.UUID, sg *saga, err error) {
	switch {
	case errors.Is(err, ErrResyncRequired):
	case errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, account.ErrInsufficientFunds):
		logger.Warn(op+" transaction rejected", "error", err)
		return
	default:
		logger.Error(op+" transaction failed", "error", err)
		return
	}
	var accounts []uuid.UUID
	if sg != nil {
		accounts = sg.unresolved
	}
	s.emit(ctx, logger, events.ResyncRequired{
		UserEvent: events.UserEvent{UserID: userID, AccountIDs: accounts},
		Operation: op,
		Reason:    err.Error(),
	})
}

func (s *Service) emit(ctx context.Context, logger *slog.Logger, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, e); err != nil {
		logger.Error("event emit failed", "event_type", e.Type(), "error", err)
	}
}

// ownedAccounts loads each account and hides accounts of other users as not found.
func ownedAccounts(ctx context.Context, repo accountrepo.Repository, userID uuid.UUID, ids ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	out := make(map[uuid.UUID]*account.Account, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		row, err := repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, account.ErrAccountNotFound
		}
		if err != nil {
			return nil, err
		}
		acc := mapper.MapAccountReadToDomain(row)
		if acc.Owned(userID) != nil {
			return nil, account.ErrAccountNotFound
		}
		out[id] = acc
	}
	return out, nil
}

func loadOwned(ctx context.Context, repo transactionrepo.Repository, userID, id uuid.UUID) (*transaction.Transaction, error) {
	row, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.UserID != userID {
		return nil, transaction.ErrTransactionNotFound
	}
	return mapper.MapTransactionReadToDomain(row), nil
}

func union(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(a)+len(b))
	out := make([]uuid.UUID, 0, len(a)+len(b))
	for _, id := range append(append([]uuid.UUID{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
