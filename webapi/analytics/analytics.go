// Package analytics serves period summaries, month comparisons and the CSV report.
package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	analyticssvc "github.com/wealthdash/wealthdash/pkg/service/analytics"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// ReportHeader is the first row of the CSV export.
var ReportHeader = []string{"Date", "Description", "Category", "Type", "Account", "Amount"}

// Routes registers the analytics routes.
//
// Routes:
//   - GET /analytics/summary     : Totals, category breakdown and trend (view, date).
//   - GET /analytics/compare     : Income and expense of two months (a, b as YYYY-MM).
//   - GET /analytics/report.csv  : Transactions of the period as CSV (view, date).
func Routes(app *fiber.App, svc *analyticssvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/analytics/summary", protected, Summary(svc, authSvc, time.Now))
	app.Get("/analytics/compare", protected, Compare(svc, authSvc))
	app.Get("/analytics/report.csv", protected, ReportCSV(svc, authSvc, time.Now))
}

// Summary returns the aggregates of the requested period.
func Summary(svc *analyticssvc.Service, authSvc *authsvc.Service, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		period, err := parsePeriod(c, now)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid period", err)
		}
		sum, err := svc.Summary(c.UserContext(), userID, period)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build summary", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Summary for "+period.Label(), sum)
	}
}

// Compare puts the income and expense of two months side by side.
func Compare(svc *analyticssvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		cmp, err := svc.CompareMonths(c.UserContext(), userID, c.Query("a"), c.Query("b"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compare months", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Months compared", cmp)
	}
}

// ReportCSV streams the period's transactions as a CSV attachment.
func ReportCSV(svc *analyticssvc.Service, authSvc *authsvc.Service, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		period, err := parsePeriod(c, now)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid period", err)
		}
		rep, err := svc.Report(c.UserContext(), userID, period)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to build report", err)
		}
		body, err := WriteCSV(rep)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to render report", err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Attachment(fmt.Sprintf("wealthdash-report-%s.csv", period.Label()))
		return c.Status(fiber.StatusOK).Send(body)
	}
}

// WriteCSV renders a report: header, one row per transaction, then totals.
func WriteCSV(rep *analyticssvc.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ReportHeader); err != nil {
		return nil, err
	}
	for _, r := range rep.Rows {
		record := []string{
			r.Date.Format(transaction.DateLayout),
			r.Description,
			r.Category,
			r.Type,
			r.Account,
			r.Amount,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	totals := [][]string{
		{"", "Total income", "", "", "", "+ " + rep.Income.StringFixed(2)},
		{"", "Total expense", "", "", "", "- " + rep.Expense.StringFixed(2)},
	}
	if err := w.WriteAll(totals); err != nil {
		return nil, err
	}
	return buf.Bytes(), w.Error()
}

func parsePeriod(c *fiber.Ctx, now func() time.Time) (analyticssvc.Period, error) {
	view, err := analyticssvc.ParseView(c.Query("view"))
	if err != nil {
		return analyticssvc.Period{}, err
	}
	anchor := now().UTC()
	if raw := c.Query("date"); raw != "" {
		if anchor, err = transaction.ParseDate(raw); err != nil {
			return analyticssvc.Period{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	return analyticssvc.NewPeriod(view, anchor), nil
}
