package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
)

// saga applies balance deltas one by one and remembers each applied write.
// When a later step fails on a store without rollback, abort replays the
// inverse of every applied write in reverse order.
type saga struct {
	repo       accountrepo.Repository
	compensate bool
	applied    []transaction.Delta
	unresolved []uuid.UUID
	logger     *slog.Logger
}

func newSaga(repo accountrepo.Repository, transactional bool, logger *slog.Logger) *saga {
	return &saga{repo: repo, compensate: !transactional, logger: logger}
}

// apply writes deltas in order and stops at the first failure.
func (s *saga) apply(ctx context.Context, deltas []transaction.Delta) error {
	for _, d := range deltas {
		if err := s.repo.AdjustBalance(ctx, d.AccountID, d.Amount); err != nil {
			return fmt.Errorf("adjust balance of account %s: %w", d.AccountID, err)
		}
		s.applied = append(s.applied, d)
	}
	return nil
}

// abort undoes the applied writes and returns cause. If any inverse write
// fails the result also wraps ErrResyncRequired.
func (s *saga) abort(ctx context.Context, cause error) error {
	if !s.compensate || len(s.applied) == 0 {
		return cause
	}
	ctx = context.WithoutCancel(ctx)

	var failed []error
	for i := len(s.applied) - 1; i >= 0; i-- {
		d := s.applied[i]
		if err := s.repo.AdjustBalance(ctx, d.AccountID, d.Amount.Neg()); err != nil {
			failed = append(failed, fmt.Errorf("undo %s on account %s: %w", d.Amount, d.AccountID, err))
			s.unresolved = append(s.unresolved, d.AccountID)
		}
	}
	s.applied = nil

	if len(failed) > 0 {
		s.logger.Error("compensation failed, balances need a resync",
			"cause", cause,
			"pending", len(failed),
			"accounts", s.unresolved,
			"error", errors.Join(failed...),
		)
		return fmt.Errorf("%w: %w", ErrResyncRequired, errors.Join(append([]error{cause}, failed...)...))
	}
	s.logger.Warn("flow failed, balance writes compensated", "cause", cause)
	return cause
}
