package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain/account"
	accountsvc "github.com/wealthdash/wealthdash/pkg/service/account"
)

//revive:disable

// CreateAccountRequest represents the request body for opening an account.
// For a credit card Amount is the available credit.
type CreateAccountRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Type        string          `json:"type" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateAccountRequest renames an account or changes a card's limit.
type UpdateAccountRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
}

// AccountDTO is the API response representation of an account.
type AccountDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Available      decimal.Decimal `json:"available"`
	Debt           decimal.Decimal `json:"debt"`
	Utilization    decimal.Decimal `json:"utilization"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountListDTO is the dashboard view: every account plus net worth.
type AccountListDTO struct {
	Accounts []AccountDTO   `json:"accounts"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// DriftDTO reports one account of a verify or resync run.
type DriftDTO struct {
	AccountID  string          `json:"account_id"`
	Name       string          `json:"name"`
	Stored     decimal.Decimal `json:"stored"`
	Expected   decimal.Decimal `json:"expected"`
	Difference decimal.Decimal `json:"difference"`
	InSync     bool            `json:"in_sync"`
}

//revive:enable

// ToAccountDTO maps a domain account to its response shape.
func ToAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:             a.ID.String(),
		Name:           a.Name,
		Type:           a.Type.String(),
		Balance:        a.Balance,
		OpeningBalance: a.OpeningBalance,
		CreditLimit:    a.CreditLimit,
		Available:      a.Available(),
		Debt:           a.Debt(),
		Utilization:    a.Utilization(),
		CreatedAt:      a.CreatedAt,
	}
}

// ToDriftDTOs maps a verify report.
func ToDriftDTOs(report []accountsvc.Drift) []DriftDTO {
	out := make([]DriftDTO, 0, len(report))
	for _, d := range report {
		out = append(out, DriftDTO{
			AccountID:  d.AccountID.String(),
			Name:       d.Name,
			Stored:     d.Stored,
			Expected:   d.Expected,
			Difference: d.Difference(),
			InSync:     d.InSync(),
		})
	}
	return out
}
