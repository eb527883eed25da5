// Package analytics aggregates a user's transactions into period summaries,
// month comparisons and exportable reports.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/repository"
)

// Split labels for the card-vs-bank expense breakdown.
const (
	SplitCard = "Credit Card"
	SplitBank = "Bank/Cash"
)

// Total is a named amount.
type Total struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// DailyTotal is the expense total of one day.
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Summary aggregates the transactions of a period. Transfers move money
// between the user's own accounts and count as neither income nor expense.
type Summary struct {
	Period      Period          `json:"period"`
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Net         decimal.Decimal `json:"net"`
	Categories  []Total         `json:"categories"`
	Necessities []Total         `json:"necessities"`
	Split       []Total         `json:"split"`
	Trend       []DailyTotal    `json:"trend"`
}

// MonthTotals is the income and expense of one calendar month.
type MonthTotals struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Comparison puts two months side by side.
type Comparison struct {
	A MonthTotals `json:"a"`
	B MonthTotals `json:"b"`
}

// ReportRow is one line of an exported report.
type ReportRow struct {
	Date        time.Time
	Description string
	Category    string
	Type        string
	Account     string
	Amount      string
}

// Report is the tabular export of a period.
type Report struct {
	Period  Period
	Rows    []ReportRow
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Service computes analytics from stored transactions.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Summary aggregates the user's transactions within p.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, p Period) (*Summary, error) {
	rows, err := s.load(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	from, to := p.Bounds()
	sum := &Summary{
		Period:  p,
		From:    from,
		To:      to,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}

	categories := map[string]decimal.Decimal{}
	necessities := map[string]decimal.Decimal{}
	split := map[string]decimal.Decimal{}
	daily := map[time.Time]decimal.Decimal{}
	for _, r := range rows {
		switch transaction.Type(r.Type) {
		case transaction.Income:
			sum.Income = sum.Income.Add(r.Amount)
		case transaction.Expense:
			sum.Expense = sum.Expense.Add(r.Amount)
			categories[r.Category] = categories[r.Category].Add(r.Amount)
			if r.Necessity != nil {
				necessities[*r.Necessity] = necessities[*r.Necessity].Add(r.Amount)
			}
			side := SplitBank
			if account.Type(r.AccountType) == account.CreditCard {
				side = SplitCard
			}
			split[side] = split[side].Add(r.Amount)
			day := transaction.DateOf(r.Date)
			daily[day] = daily[day].Add(r.Amount)
		}
	}
	sum.Net = sum.Income.Sub(sum.Expense)
	sum.Categories = sortedTotals(categories)
	sum.Necessities = sortedTotals(necessities)
	sum.Split = sortedTotals(split)

	sum.Trend = make([]DailyTotal, 0, len(daily))
	for day, v := range daily {
		sum.Trend = append(sum.Trend, DailyTotal{Date: day, Value: v})
	}
	sort.Slice(sum.Trend, func(i, j int) bool { return sum.Trend[i].Date.Before(sum.Trend[j].Date) })
	return sum, nil
}

// CompareMonths returns income and expense of two YYYY-MM months.
func (s *Service) CompareMonths(ctx context.Context, userID uuid.UUID, a, b string) (*Comparison, error) {
	ma, err := ParseMonth(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	mb, err := ParseMonth(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	totals := func(m time.Time) (MonthTotals, error) {
		sum, err := s.Summary(ctx, userID, NewPeriod(Month, m))
		if err != nil {
			return MonthTotals{}, err
		}
		return MonthTotals{Month: m.Format(MonthLayout), Income: sum.Income, Expense: sum.Expense}, nil
	}
	ta, err := totals(ma)
	if err != nil {
		return nil, err
	}
	tb, err := totals(mb)
	if err != nil {
		return nil, err
	}
	return &Comparison{A: ta, B: tb}, nil
}

// Report lists the period's transactions newest first with signed amounts
// and income and expense totals.
func (s *Service) Report(ctx context.Context, userID uuid.UUID, p Period) (*Report, error) {
	rows, err := s.load(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	rep := &Report{Period: p, Income: decimal.Zero, Expense: decimal.Zero, Rows: make([]ReportRow, 0, len(rows))}
	for _, r := range rows {
		sign := "+"
		switch transaction.Type(r.Type) {
		case transaction.Expense:
			sign = "-"
			rep.Expense = rep.Expense.Add(r.Amount)
		case transaction.Income:
			rep.Income = rep.Income.Add(r.Amount)
		}
		desc := r.Description
		if desc == "" {
			desc = r.Category
		}
		acc := r.AccountName
		if acc == "" {
			acc = "-"
		}
		rep.Rows = append(rep.Rows, ReportRow{
			Date:        r.Date,
			Description: desc,
			Category:    r.Category,
			Type:        r.Type,
			Account:     acc,
			Amount:      sign + " " + r.Amount.StringFixed(2),
		})
	}
	s.logger.Debug("report built", "user_id", userID, "period", p.Label(), "rows", len(rep.Rows))
	return rep, nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID, p Period) (rows []*dto.TransactionRead, err error) {
	from, to := p.Bounds()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		rows, err = repo.List(ctx, dto.TransactionFilter{UserID: userID, From: from, To: to})
		return err
	})
	return rows, err
}

// sortedTotals orders by value descending, then name.
func sortedTotals(m map[string]decimal.Decimal) []Total {
	out := make([]Total, 0, len(m))
	for name, v := range m {
		out = append(out, Total{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
