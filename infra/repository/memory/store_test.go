package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
)

func TestGetRepositoryByType(t *testing.T) {
	uow := NewUoW(NewStore())
	repoAny, err := uow.GetRepository(repository.AccountRepositoryType)
	require.NoError(t, err)
	_, ok := repoAny.(accountrepo.Repository)
	assert.True(t, ok)

	_, err = uow.GetRepository(nil)
	assert.Error(t, err)
	assert.False(t, uow.Transactional())
}

func TestAccountsAdjustBalance(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(NewStore())
	repo, _ := uow.AccountRepository()
	id := uuid.New()

	require.NoError(t, repo.Create(ctx, dto.AccountCreate{ID: id, UserID: uuid.New(), Name: "Bank", Type: "Bank", Balance: decimal.NewFromInt(2000)}))
	require.NoError(t, repo.AdjustBalance(ctx, id, decimal.NewFromInt(-500)))

	acc, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1500)))

	assert.ErrorIs(t, repo.AdjustBalance(ctx, uuid.New(), decimal.NewFromInt(1)), domain.ErrNotFound)
	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionsListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUoW(store)
	accRepo, _ := uow.AccountRepository()
	txRepo, _ := uow.TransactionRepository()
	user := uuid.New()
	bank, card := uuid.New(), uuid.New()
	require.NoError(t, accRepo.Create(ctx, dto.AccountCreate{ID: bank, UserID: user, Name: "Bank", Type: "Bank"}))
	require.NoError(t, accRepo.Create(ctx, dto.AccountCreate{ID: card, UserID: user, Name: "Visa", Type: "Credit Card"}))

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	older := uuid.New()
	newer := uuid.New()
	transfer := uuid.New()
	require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{ID: older, UserID: user, AccountID: bank, Amount: decimal.NewFromInt(1), Type: "Expense", Date: d2, CreatedAt: base}))
	require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{ID: newer, UserID: user, AccountID: card, Amount: decimal.NewFromInt(1), Type: "Expense", Date: d2, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{ID: transfer, UserID: user, AccountID: bank, TargetAccountID: &card, Amount: decimal.NewFromInt(1), Type: "Transfer", Date: d1, CreatedAt: base}))
	require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{ID: uuid.New(), UserID: uuid.New(), AccountID: bank, Amount: decimal.NewFromInt(1), Type: "Income", Date: d2}))

	all, err := txRepo.List(ctx, dto.TransactionFilter{UserID: user})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer, all[0].ID)
	assert.Equal(t, older, all[1].ID)
	assert.Equal(t, transfer, all[2].ID)
	assert.Equal(t, "Visa", all[0].AccountName)
	assert.Equal(t, "Credit Card", all[0].AccountType)

	limited, _ := txRepo.List(ctx, dto.TransactionFilter{UserID: user, Limit: 1})
	assert.Len(t, limited, 1)

	onCard, _ := txRepo.List(ctx, dto.TransactionFilter{UserID: user, AccountID: &card})
	assert.Len(t, onCard, 2, "target side of a transfer matches the account filter")

	from := d2
	ranged, _ := txRepo.List(ctx, dto.TransactionFilter{UserID: user, From: &from})
	assert.Len(t, ranged, 2)

	n, err := txRepo.CountByAccount(ctx, card)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.True(t, all[2].Touches(card), "transfer target")
	assert.True(t, all[2].Touches(bank), "transfer source")
	assert.False(t, all[0].Touches(bank))
}

func TestTransactionsUpdateClearsNullableFields(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(NewStore())
	txRepo, _ := uow.TransactionRepository()
	id, target := uuid.New(), uuid.New()
	needs := "Needs"
	require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{ID: id, UserID: uuid.New(), AccountID: uuid.New(), TargetAccountID: &target, Necessity: &needs, Amount: decimal.NewFromInt(5), Type: "Transfer"}))

	require.NoError(t, txRepo.Update(ctx, id, dto.TransactionUpdate{Amount: decimal.NewFromInt(7), Type: "Income", Category: "Salary"}))
	got, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.TargetAccountID)
	assert.Nil(t, got.Necessity)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(7)))

	require.NoError(t, txRepo.Delete(ctx, id))
	assert.ErrorIs(t, txRepo.Delete(ctx, id), domain.ErrNotFound)
}

func TestCategoriesAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(NewStore())
	repo, _ := uow.CategoryRepository()
	user := uuid.New()

	require.NoError(t, repo.Create(ctx, dto.CategoryCreate{ID: uuid.New(), UserID: user, Name: "Pets", Type: "Expense"}))
	assert.ErrorIs(t, repo.Create(ctx, dto.CategoryCreate{ID: uuid.New(), UserID: user, Name: "pets", Type: "Expense"}), domain.ErrAlreadyExists)
	require.NoError(t, repo.Create(ctx, dto.CategoryCreate{ID: uuid.New(), UserID: user, Name: "Pets", Type: "Income"}))

	found, err := repo.FindByName(ctx, user, "Expense", "PETS")
	require.NoError(t, err)
	assert.Equal(t, "Pets", found.Name)

	list, _ := repo.ListByUser(ctx, user, "Expense")
	assert.Len(t, list, 1)
	list, _ = repo.ListByUser(ctx, user, "")
	assert.Len(t, list, 2)
}

func TestUsersUniqueness(t *testing.T) {
	ctx := context.Background()
	uow := NewUoW(NewStore())
	repo, _ := uow.UserRepository()

	require.NoError(t, repo.Create(ctx, &dto.UserCreate{ID: uuid.New(), Username: "jane", Email: "jane@example.com", Password: "hash"}))
	assert.ErrorIs(t, repo.Create(ctx, &dto.UserCreate{ID: uuid.New(), Username: "jane", Email: "other@example.com"}), domain.ErrAlreadyExists)
	assert.ErrorIs(t, repo.Create(ctx, &dto.UserCreate{ID: uuid.New(), Username: "john", Email: "JANE@example.com"}), domain.ErrAlreadyExists)

	ok, _ := repo.ExistsByUsername(ctx, "jane")
	assert.True(t, ok)
	u, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.HashedPassword)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewUoW(NewStore()).Do(ctx, func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
