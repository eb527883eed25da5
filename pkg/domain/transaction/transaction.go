// Package transaction models money movements and their effect on account balances.
package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound is returned when a transaction cannot be found for the caller.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAmountMustBePositive is returned when a transaction amount is zero or negative.
	ErrAmountMustBePositive = errors.New("transaction amount must be positive")

	// ErrSameAccount is returned when a transfer names the same account on both sides.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrTargetRequired is returned when a transfer has no destination account.
	ErrTargetRequired = errors.New("transfer requires a target account")

	// ErrInvalidType is returned for types other than Expense, Income or Transfer.
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrInvalidNecessity is returned for necessity values other than Needs, Wants or Savings.
	ErrInvalidNecessity = errors.New("invalid necessity")

	// ErrAccountRequired is returned when the draft has no source account.
	ErrAccountRequired = errors.New("account is required")

	// ErrCategoryRequired is returned when an Expense or Income has no category.
	ErrCategoryRequired = errors.New("category is required")

	// ErrNewCategoryNameRequired is returned when the draft asks for a new category but names none.
	ErrNewCategoryNameRequired = errors.New("new category name is required")

	// ErrDateRequired is returned when the draft has no date.
	ErrDateRequired = errors.New("date is required")

	// ErrDescriptionTooLong is returned when the description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("description is too long")
)

const (
	// MaxDescriptionLength is the longest description accepted.
	MaxDescriptionLength = 255
	// DateLayout is the wire format of transaction dates.
	DateLayout = "2006-01-02"
)

// Type is the kind of money movement.
type Type string

const (
	Expense  Type = "Expense"
	Income   Type = "Income"
	Transfer Type = "Transfer"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case Expense, Income, Transfer:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// ParseType accepts the canonical names case-insensitively.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{Expense, Income, Transfer} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Necessity classifies an expense.
type Necessity string

const (
	Needs   Necessity = "Needs"
	Wants   Necessity = "Wants"
	Savings Necessity = "Savings"
)

// Valid reports whether n is a known necessity.
func (n Necessity) Valid() bool {
	switch n {
	case Needs, Wants, Savings:
		return true
	}
	return false
}

// ParseNecessity accepts the canonical names case-insensitively.
func ParseNecessity(s string) (Necessity, error) {
	for _, n := range []Necessity{Needs, Wants, Savings} {
		if strings.EqualFold(strings.TrimSpace(s), string(n)) {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidNecessity, s)
}

// Default display markers per type.
const (
	ExpenseEmoji  = "🍔"
	IncomeEmoji   = "💰"
	TransferEmoji = "🔄"
	FallbackEmoji = "💸"
)

// DefaultEmoji returns the marker shown for t when none was chosen.
func DefaultEmoji(t Type) string {
	switch t {
	case Expense:
		return ExpenseEmoji
	case Income:
		return IncomeEmoji
	case Transfer:
		return TransferEmoji
	}
	return FallbackEmoji
}

// Transaction is a persisted money movement.
//
// Invariants:
//   - Amount is a positive magnitude. Direction comes from Type.
//   - TargetAccountID is set only for transfers and differs from AccountID.
//   - Necessity is set only for expenses.
type Transaction struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	TargetAccountID *uuid.UUID
	Amount          decimal.Decimal
	Type            Type
	Category        string
	Necessity       *Necessity
	Description     string
	Date            time.Time
	Emoji           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Effect returns the balance effect of the transaction.
func (t *Transaction) Effect() (Effect, error) {
	return EffectOf(t.Type, t.Amount, t.AccountID, t.TargetAccountID)
}

// Draft returns the mutable fields of t as a draft.
func (t *Transaction) Draft() Draft {
	d := Draft{
		Type:        t.Type,
		Amount:      t.Amount,
		AccountID:   t.AccountID,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		Emoji:       t.Emoji,
	}
	if t.TargetAccountID != nil {
		target := *t.TargetAccountID
		d.TargetAccountID = &target
	}
	if t.Necessity != nil {
		n := *t.Necessity
		d.Necessity = &n
	}
	return d
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
