package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	categorysvc "github.com/wealthdash/wealthdash/pkg/service/category"
)

func newService() (*categorysvc.Service, *memory.UoW) {
	uow := memory.NewUoW(memory.NewStore())
	return categorysvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil))), uow
}

func TestListMergesDefaultsAndCustom(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Create(ctx, user, "Pets", category.Expense)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user, "Tips", category.Income)
	require.NoError(t, err)

	names, err := svc.List(ctx, user, category.Expense)
	require.NoError(t, err)
	assert.Equal(t, category.Defaults(category.Expense), names[:len(names)-1])
	assert.Equal(t, "Pets", names[len(names)-1])
	assert.NotContains(t, names, "Tips")

	other, err := svc.List(ctx, uuid.New(), category.Expense)
	require.NoError(t, err)
	assert.NotContains(t, other, "Pets")

	_, err = svc.List(ctx, user, category.Type("Transfer"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateRejectsDuplicatesAndReserved(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Create(ctx, user, "Pets", category.Expense)
	require.NoError(t, err)

	_, err = svc.Create(ctx, user, "pets", category.Expense)
	assert.ErrorIs(t, err, category.ErrDuplicate)

	_, err = svc.Create(ctx, user, "food", category.Expense)
	assert.ErrorIs(t, err, category.ErrDuplicate)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, user, "Transfer", category.Expense)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, user, "   ", category.Expense)
	assert.ErrorIs(t, err, category.ErrNameRequired)
}

func TestResolve(t *testing.T) {
	_, uow := newService()
	ctx := context.Background()
	user := uuid.New()
	repo, err := uow.CategoryRepository()
	require.NoError(t, err)

	base := transaction.Draft{Type: transaction.Expense, Amount: decimal.NewFromInt(1), AccountID: uuid.New()}

	tests := []struct {
		name     string
		draft    func() transaction.Draft
		expected string
	}{
		{"transfer is fixed", func() transaction.Draft { d := base; d.Type = transaction.Transfer; d.Category = "Food"; return d }, category.Transfer},
		{"default keeps its spelling", func() transaction.Draft { d := base; d.Category = "food"; return d }, "Food"},
		{"new category registered", func() transaction.Draft {
			d := base
			d.Category = transaction.AddNewCategory
			d.NewCategory = " Gym "
			return d
		}, "Gym"},
		{"existing category reused", func() transaction.Draft { d := base; d.Category = "GYM"; return d }, "Gym"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := categorysvc.Resolve(ctx, repo, user, tc.draft())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	custom, err := repo.ListByUser(ctx, user, string(category.Expense))
	require.NoError(t, err)
	assert.Len(t, custom, 1, "a category is registered once")

	d := base
	d.Category = transaction.AddNewCategory
	_, err = categorysvc.Resolve(ctx, repo, user, d)
	assert.ErrorIs(t, err, domain.ErrValidation)

	d = base
	d.Category = "Pets"
	_, err = categorysvc.Resolve(ctx, repo, user, d)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, category.ErrUnknown)
	custom, err = repo.ListByUser(ctx, user, string(category.Expense))
	require.NoError(t, err)
	assert.Len(t, custom, 1, "an unknown name is not registered")
}
