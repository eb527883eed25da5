package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/mapper"
	"github.com/wealthdash/wealthdash/pkg/repository"
)

// Drift compares a stored balance with the balance the transaction history implies.
type Drift struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	Expected  decimal.Decimal `json:"expected"`
}

// Difference is stored minus expected.
func (d Drift) Difference() decimal.Decimal {
	return d.Stored.Sub(d.Expected)
}

// InSync reports whether the stored balance matches the history.
func (d Drift) InSync() bool {
	return d.Stored.Equal(d.Expected)
}

// Verify recomputes every account balance as opening balance plus the
// effects of all transactions touching it, and reports the result per account.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID) (report []Drift, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		report, err = s.drift(ctx, uow, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Resync writes the expected balance back to every drifted account and
// returns the accounts it corrected.
func (s *Service) Resync(ctx context.Context, userID uuid.UUID) (fixed []Drift, err error) {
	logger := s.logger.With("user_id", userID)
	logger.Info("Resync started")

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		report, err := s.drift(ctx, uow, userID)
		if err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		for _, d := range report {
			if d.InSync() {
				continue
			}
			expected := d.Expected
			if err := repo.Update(ctx, d.AccountID, dto.AccountUpdate{Balance: &expected}); err != nil {
				return err
			}
			logger.Warn("balance corrected", "account_id", d.AccountID, "stored", d.Stored, "expected", d.Expected)
			fixed = append(fixed, d)
		}
		return nil
	})
	if err != nil {
		logger.Error("Resync failed", "error", err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(fixed))
	for _, d := range fixed {
		ids = append(ids, d.AccountID)
	}
	s.changed(ctx, logger, userID, "resync", ids...)
	logger.Info("Resync successful", "corrected", len(fixed))
	return fixed, nil
}

func (s *Service) drift(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID) ([]Drift, error) {
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	txRepo, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	accounts, err := listAccounts(ctx, accRepo, userID)
	if err != nil {
		return nil, err
	}
	rows, err := txRepo.List(ctx, dto.TransactionFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	expected := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		expected[a.ID] = a.OpeningBalance
	}
	for _, row := range rows {
		eff, err := mapper.MapTransactionReadToDomain(row).Effect()
		if err != nil {
			s.logger.Warn("skipping transaction with invalid effect", "transaction_id", row.ID, "error", err)
			continue
		}
		for _, d := range eff.Deltas() {
			if cur, ok := expected[d.AccountID]; ok {
				expected[d.AccountID] = cur.Add(d.Amount)
			}
		}
	}

	report := make([]Drift, 0, len(accounts))
	for _, a := range accounts {
		report = append(report, driftOf(a, expected[a.ID]))
	}
	return report, nil
}

func driftOf(a *account.Account, expected decimal.Decimal) Drift {
	return Drift{AccountID: a.ID, Name: a.Name, Stored: a.Balance, Expected: expected}
}
