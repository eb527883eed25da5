package analytics_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/service/analytics"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestPeriodBounds(t *testing.T) {
	t.Parallel()
	// 2024-03-13 is a Wednesday.
	anchor := time.Date(2024, 3, 13, 17, 45, 0, 0, time.UTC)
	tests := []struct {
		view     analytics.View
		from, to time.Time
		label    string
	}{
		{analytics.Week, day(2024, 3, 10), day(2024, 3, 16), "week-of-2024-03-10"},
		{analytics.Month, day(2024, 3, 1), day(2024, 3, 31), "2024-03"},
		{analytics.Year, day(2024, 1, 1), day(2024, 12, 31), "2024"},
	}
	for _, tc := range tests {
		t.Run(string(tc.view), func(t *testing.T) {
			p := analytics.NewPeriod(tc.view, anchor)
			from, to := p.Bounds()
			require.NotNil(t, from)
			assert.Equal(t, tc.from, *from)
			assert.Equal(t, tc.to, *to)
			assert.Equal(t, tc.label, p.Label())
		})
	}

	from, to := analytics.NewPeriod(analytics.All, anchor).Bounds()
	assert.Nil(t, from)
	assert.Nil(t, to)

	// A Sunday starts its own week.
	from, _ = analytics.NewPeriod(analytics.Week, day(2024, 3, 10)).Bounds()
	assert.Equal(t, day(2024, 3, 10), *from)

	from, to = analytics.NewPeriod(analytics.Month, day(2024, 2, 10)).Bounds()
	assert.Equal(t, day(2024, 2, 1), *from)
	assert.Equal(t, day(2024, 2, 29), *to)
}

func TestParseView(t *testing.T) {
	t.Parallel()
	v, err := analytics.ParseView("week")
	require.NoError(t, err)
	assert.Equal(t, analytics.Week, v)
	v, _ = analytics.ParseView("")
	assert.Equal(t, analytics.Month, v)
	_, err = analytics.ParseView("decade")
	assert.ErrorIs(t, err, analytics.ErrInvalidView)
}

type seeded struct {
	svc      *analytics.Service
	user     uuid.UUID
	stranger uuid.UUID
}

func seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	uow := memory.NewUoW(memory.NewStore())
	user, stranger := uuid.New(), uuid.New()
	bank, card, other := uuid.New(), uuid.New(), uuid.New()
	accRepo, _ := uow.AccountRepository()
	require.NoError(t, accRepo.Create(ctx, dto.AccountCreate{ID: bank, UserID: user, Name: "Bank", Type: "Bank"}))
	require.NoError(t, accRepo.Create(ctx, dto.AccountCreate{ID: card, UserID: user, Name: "Visa", Type: "Credit Card"}))
	require.NoError(t, accRepo.Create(ctx, dto.AccountCreate{ID: other, UserID: stranger, Name: "Other Bank", Type: "Bank"}))

	txRepo, _ := uow.TransactionRepository()
	needs, wants := "Needs", "Wants"
	add := func(owner, acc uuid.UUID, typ, cat string, amount string, date time.Time, desc string, nec *string) {
		require.NoError(t, txRepo.Create(ctx, dto.TransactionCreate{
			ID: uuid.New(), UserID: owner, AccountID: acc, Type: typ, Category: cat,
			Amount: decimal.RequireFromString(amount), Date: date, Description: desc, Necessity: nec,
		}))
	}
	add(user, bank, "Income", "Salary", "3000", day(2024, 3, 1), "", nil)
	add(user, bank, "Expense", "Food", "120.50", day(2024, 3, 2), "Groceries", &needs)
	add(user, card, "Expense", "Food", "30", day(2024, 3, 2), "", &wants)
	add(user, card, "Expense", "Shopping", "200", day(2024, 3, 5), "Shoes", &wants)
	add(user, bank, "Transfer", "Transfer", "500", day(2024, 3, 6), "Transfer to Visa", nil)
	add(user, bank, "Expense", "Bills", "80", day(2024, 2, 20), "", &needs)
	add(user, bank, "Income", "Gift", "50", day(2024, 2, 14), "", nil)
	add(stranger, other, "Expense", "Food", "999", day(2024, 3, 2), "", nil)

	return seeded{svc: analytics.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil))), user: user, stranger: stranger}
}

func TestSummary(t *testing.T) {
	s := seed(t)
	sum, err := s.svc.Summary(context.Background(), s.user, analytics.NewPeriod(analytics.Month, day(2024, 3, 15)))
	require.NoError(t, err)

	assert.True(t, sum.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, sum.Expense.Equal(decimal.RequireFromString("350.50")), "transfers are not expenses")
	assert.True(t, sum.Net.Equal(decimal.RequireFromString("2649.50")))

	require.Len(t, sum.Categories, 2)
	assert.Equal(t, "Shopping", sum.Categories[0].Name)
	assert.Equal(t, "Food", sum.Categories[1].Name)
	assert.True(t, sum.Categories[1].Value.Equal(decimal.RequireFromString("150.50")))

	require.Len(t, sum.Split, 2)
	assert.Equal(t, analytics.SplitCard, sum.Split[0].Name)
	assert.True(t, sum.Split[0].Value.Equal(decimal.NewFromInt(230)))
	assert.Equal(t, analytics.SplitBank, sum.Split[1].Name)

	require.Len(t, sum.Necessities, 2)
	assert.Equal(t, "Wants", sum.Necessities[0].Name)

	require.Len(t, sum.Trend, 2)
	assert.Equal(t, day(2024, 3, 2), sum.Trend[0].Date)
	assert.True(t, sum.Trend[0].Value.Equal(decimal.RequireFromString("150.50")))
	assert.Equal(t, day(2024, 3, 5), sum.Trend[1].Date)
}

func TestSummaryWeekAndAll(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	// Week of Sunday 2024-03-03 to Saturday 2024-03-09.
	week, err := s.svc.Summary(ctx, s.user, analytics.NewPeriod(analytics.Week, day(2024, 3, 6)))
	require.NoError(t, err)
	assert.True(t, week.Expense.Equal(decimal.NewFromInt(200)))
	assert.True(t, week.Income.IsZero())

	all, err := s.svc.Summary(ctx, s.user, analytics.NewPeriod(analytics.All, time.Now()))
	require.NoError(t, err)
	assert.True(t, all.Income.Equal(decimal.NewFromInt(3050)))
	assert.True(t, all.Expense.Equal(decimal.RequireFromString("430.50")))
}

func TestCompareMonths(t *testing.T) {
	s := seed(t)
	cmp, err := s.svc.CompareMonths(context.Background(), s.user, "2024-03", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", cmp.A.Month)
	assert.True(t, cmp.A.Income.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "2024-02", cmp.B.Month)
	assert.True(t, cmp.B.Income.Equal(decimal.NewFromInt(50)))
	assert.True(t, cmp.B.Expense.Equal(decimal.NewFromInt(80)))

	_, err = s.svc.CompareMonths(context.Background(), s.user, "March", "2024-02")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, analytics.ErrInvalidMonth)
}

func TestReport(t *testing.T) {
	s := seed(t)
	rep, err := s.svc.Report(context.Background(), s.user, analytics.NewPeriod(analytics.Month, day(2024, 3, 1)))
	require.NoError(t, err)
	require.Len(t, rep.Rows, 5)

	first := rep.Rows[0]
	assert.Equal(t, day(2024, 3, 6), first.Date)
	assert.Equal(t, "+ 500.00", first.Amount)
	assert.Equal(t, "Bank", first.Account)

	var food analytics.ReportRow
	for _, r := range rep.Rows {
		if r.Category == "Food" && r.Account == "Visa" {
			food = r
		}
	}
	assert.Equal(t, "Food", food.Description, "empty description falls back to the category")
	assert.Equal(t, "- 30.00", food.Amount)

	assert.True(t, rep.Income.Equal(decimal.NewFromInt(3000)))
	assert.True(t, rep.Expense.Equal(decimal.RequireFromString("350.50")))
}

func TestOtherUsersRowsAreExcluded(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	march := analytics.NewPeriod(analytics.Month, day(2024, 3, 1))

	rep, err := s.svc.Report(ctx, s.user, march)
	require.NoError(t, err)
	for _, r := range rep.Rows {
		assert.NotEqual(t, "Other Bank", r.Account)
	}

	theirs, err := s.svc.Summary(ctx, s.stranger, march)
	require.NoError(t, err)
	assert.True(t, theirs.Expense.Equal(decimal.NewFromInt(999)), "got %s", theirs.Expense)
	assert.True(t, theirs.Income.IsZero())
	require.Len(t, theirs.Categories, 1)
	assert.Equal(t, "Food", theirs.Categories[0].Name)
}
