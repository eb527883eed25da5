package account_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "github.com/wealthdash/wealthdash/infra/cache"
	"github.com/wealthdash/wealthdash/infra/eventbus"
	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/events"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
	accountsvc "github.com/wealthdash/wealthdash/pkg/service/account"
	txsvc "github.com/wealthdash/wealthdash/pkg/service/transaction"
)

type fixture struct {
	ctx   context.Context
	uow   *memory.UoW
	bus   *eventbus.MemoryEventBus
	cache *infracache.MemoryCache
	svc   *accountsvc.Service
	txs   *txsvc.Service
	user  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		ctx:   context.Background(),
		uow:   memory.NewUoW(memory.NewStore()),
		bus:   eventbus.NewWithMemory(logger),
		cache: infracache.NewMemoryCache(),
		user:  uuid.New(),
	}
	f.svc = accountsvc.New(f.uow, f.bus, f.cache, logger, accountsvc.WithSummaryTTL(time.Hour))
	f.txs = txsvc.New(f.uow, f.bus, logger)
	for _, et := range events.AllTypes() {
		f.bus.Register(et.String(), f.svc.Invalidate)
	}
	return f
}

func (f *fixture) open(t *testing.T, name string, typ account.Type, amount, limit int64) *account.Account {
	t.Helper()
	a, err := f.svc.CreateAccount(f.ctx, f.user, accountsvc.CreateParams{
		Name:        name,
		Type:        typ,
		Amount:      decimal.NewFromInt(amount),
		CreditLimit: decimal.NewFromInt(limit),
	})
	require.NoError(t, err)
	return a
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)

	card := f.open(t, "Visa", account.CreditCard, 40000, 50000)
	assert.True(t, card.Balance.Equal(decimal.NewFromInt(-10000)))
	assert.True(t, card.OpeningBalance.Equal(decimal.NewFromInt(-10000)))

	got, err := f.svc.GetAccount(f.ctx, f.user, card.ID)
	require.NoError(t, err)
	assert.True(t, got.CreditLimit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, got.Available().Equal(decimal.NewFromInt(40000)))

	_, err = f.svc.CreateAccount(f.ctx, f.user, accountsvc.CreateParams{Name: "Bad", Type: account.CreditCard, Amount: decimal.NewFromInt(10), CreditLimit: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, account.ErrAvailableExceedsLimit)

	_, err = f.svc.CreateAccount(f.ctx, f.user, accountsvc.CreateParams{Name: "", Type: account.Bank})
	assert.ErrorIs(t, err, account.ErrNameRequired)
}

func TestGetAccountOfOtherUserIsNotFound(t *testing.T) {
	f := newFixture(t)
	a := f.open(t, "Bank", account.Bank, 100, 0)

	_, err := f.svc.GetAccount(f.ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	_, err = f.svc.GetAccount(f.ctx, f.user, uuid.New())
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestNetWorthSumsSignedBalances(t *testing.T) {
	f := newFixture(t)
	f.open(t, "Bank", account.Bank, 10000, 0)
	f.open(t, "Cash", account.Cash, 2000, 0)
	f.open(t, "Visa", account.CreditCard, 0, 5000)

	sum, err := f.svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, sum.NetWorth.Equal(decimal.NewFromInt(7000)), "got %s", sum.NetWorth)
	assert.Equal(t, 3, sum.AccountCount)

	accounts, err := f.svc.ListAccounts(f.ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestNetWorthCacheIsInvalidatedByTransactions(t *testing.T) {
	f := newFixture(t)
	bank := f.open(t, "Bank", account.Bank, 1000, 0)

	first, err := f.svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	cached, _ := f.cache.Get(f.ctx, f.user)
	require.NotNil(t, cached)
	assert.True(t, cached.NetWorth.Equal(first.NetWorth))

	_, err = f.txs.Create(f.ctx, f.user, transaction.Draft{
		Type: transaction.Expense, Amount: decimal.NewFromInt(250), AccountID: bank.ID, Category: "Food", Date: time.Now(),
	})
	require.NoError(t, err)
	cached, _ = f.cache.Get(f.ctx, f.user)
	assert.Nil(t, cached, "transaction events drop the cached summary")

	second, err := f.svc.NetWorth(f.ctx, f.user)
	require.NoError(t, err)
	assert.True(t, second.NetWorth.Equal(decimal.NewFromInt(750)))
}

func TestNetWorthConcurrentCallers(t *testing.T) {
	f := newFixture(t)
	f.open(t, "Bank", account.Bank, 1000, 0)

	var wg sync.WaitGroup
	results := make([]decimal.Decimal, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sum, err := f.svc.NetWorth(f.ctx, f.user)
			if assert.NoError(t, err) {
				results[i] = sum.NetWorth
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.True(t, r.Equal(decimal.NewFromInt(1000)))
	}
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t)
	card := f.open(t, "Visa", account.CreditCard, 40000, 50000)
	bank := f.open(t, "Bank", account.Bank, 100, 0)

	name := "  Travel Card "
	limit := decimal.NewFromInt(60000)
	updated, err := f.svc.UpdateAccount(f.ctx, f.user, card.ID, accountsvc.UpdateParams{Name: &name, CreditLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "Travel Card", updated.Name)

	got, err := f.svc.GetAccount(f.ctx, f.user, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel Card", got.Name)
	assert.True(t, got.CreditLimit.Equal(limit))
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(-10000)), "balance is untouched by a limit change")
	assert.True(t, got.Available().Equal(decimal.NewFromInt(50000)))

	_, err = f.svc.UpdateAccount(f.ctx, f.user, bank.ID, accountsvc.UpdateParams{CreditLimit: &limit})
	assert.ErrorIs(t, err, account.ErrCreditLimitNotApplicable)

	empty := " "
	_, err = f.svc.UpdateAccount(f.ctx, f.user, bank.ID, accountsvc.UpdateParams{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateAccount(f.ctx, uuid.New(), bank.ID, accountsvc.UpdateParams{Name: &name})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestDeleteAccountRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	bank := f.open(t, "Bank", account.Bank, 1000, 0)
	savings := f.open(t, "Savings", account.Bank, 0, 0)

	target := savings.ID
	tx, err := f.txs.Create(f.ctx, f.user, transaction.Draft{
		Type: transaction.Transfer, Amount: decimal.NewFromInt(10), AccountID: bank.ID, TargetAccountID: &target, Date: time.Now(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteAccount(f.ctx, f.user, savings.ID), account.ErrAccountInUse)

	require.NoError(t, f.txs.Delete(f.ctx, f.user, tx.ID))
	require.NoError(t, f.svc.DeleteAccount(f.ctx, f.user, savings.ID))
	_, err = f.svc.GetAccount(f.ctx, f.user, savings.ID)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestVerifyReportsNoDriftAfterFlows(t *testing.T) {
	f := newFixture(t)
	bank := f.open(t, "Bank", account.Bank, 2000, 0)
	cash := f.open(t, "Cash", account.Cash, 300, 0)
	card := f.open(t, "Visa", account.CreditCard, 40000, 50000)
	today := time.Now()

	exp, err := f.txs.Create(f.ctx, f.user, transaction.Draft{Type: transaction.Expense, Amount: decimal.RequireFromString("49.90"), AccountID: card.ID, Category: "Food", Date: today})
	require.NoError(t, err)
	cardID := card.ID
	pay, err := f.txs.Create(f.ctx, f.user, transaction.Draft{Type: transaction.Transfer, Amount: decimal.NewFromInt(500), AccountID: bank.ID, TargetAccountID: &cardID, Date: today})
	require.NoError(t, err)
	_, err = f.txs.Create(f.ctx, f.user, transaction.Draft{Type: transaction.Income, Amount: decimal.NewFromInt(1200), AccountID: bank.ID, Category: "Salary", Date: today})
	require.NoError(t, err)

	income := transaction.Income
	_, err = f.txs.Edit(f.ctx, f.user, exp.ID, transaction.Changes{Type: &income, AccountID: &cash.ID})
	require.NoError(t, err)
	cashID := cash.ID
	_, err = f.txs.Edit(f.ctx, f.user, pay.ID, transaction.Changes{TargetAccountID: &cashID})
	require.NoError(t, err)
	require.NoError(t, f.txs.Delete(f.ctx, f.user, exp.ID))

	report, err := f.svc.Verify(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, report, 3)
	for _, d := range report {
		assert.True(t, d.InSync(), "%s drifted by %s", d.Name, d.Difference())
	}
}

func TestResyncCorrectsDrift(t *testing.T) {
	f := newFixture(t)
	bank := f.open(t, "Bank", account.Bank, 1000, 0)
	_, err := f.txs.Create(f.ctx, f.user, transaction.Draft{Type: transaction.Expense, Amount: decimal.NewFromInt(100), AccountID: bank.ID, Category: "Food", Date: time.Now()})
	require.NoError(t, err)

	repo, _ := f.uow.AccountRepository()
	require.NoError(t, repo.AdjustBalance(f.ctx, bank.ID, decimal.NewFromInt(-42)))

	report, err := f.svc.Verify(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.False(t, report[0].InSync())
	assert.True(t, report[0].Difference().Equal(decimal.NewFromInt(-42)))

	fixed, err := f.svc.Resync(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, fixed, 1)

	got, err := repo.Get(f.ctx, bank.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(900)))

	fixed, err = f.svc.Resync(f.ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, fixed)

	last := f.bus.Published()[len(f.bus.Published())-1]
	assert.Equal(t, events.EventTypeAccountChanged.String(), last.Type())
}

func TestVerifyIgnoresOtherUsers(t *testing.T) {
	f := newFixture(t)
	f.open(t, "Bank", account.Bank, 1000, 0)
	txRepo, _ := f.uow.TransactionRepository()
	rows, err := txRepo.List(f.ctx, dto.TransactionFilter{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, rows)

	report, err := f.svc.Verify(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, report)
}
