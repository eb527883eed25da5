package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAccountType is returned when the account type is not one of Bank, Cash or Credit Card.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrNameRequired is returned when an account is created or renamed with an empty name.
	ErrNameRequired = errors.New("account name is required")

	// ErrNameTooLong is returned when an account name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("account name is too long")

	// ErrNegativeCreditLimit is returned when a credit card is given a negative limit.
	ErrNegativeCreditLimit = errors.New("credit limit cannot be negative")

	// ErrNegativeAvailableCredit is returned when a credit card is opened with negative available credit.
	ErrNegativeAvailableCredit = errors.New("available credit cannot be negative")

	// ErrAvailableExceedsLimit is returned when the available credit is larger than the limit.
	ErrAvailableExceedsLimit = errors.New("available credit cannot exceed credit limit")

	// ErrCreditLimitNotApplicable is returned when a credit limit is set on a Bank or Cash account.
	ErrCreditLimitNotApplicable = errors.New("credit limit only applies to credit card accounts")

	// ErrInsufficientFunds is returned when a debit would take a Bank or Cash account below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountInUse is returned when deleting an account that transactions still reference.
	ErrAccountInUse = errors.New("account is referenced by transactions")

	// ErrNotOwner is returned when a user attempts to act on an account they do not own.
	ErrNotOwner = errors.New("not owner")
)

// MaxNameLength is the longest account name accepted.
const MaxNameLength = 100

// Type is the kind of money container an account models.
type Type string

const (
	Bank       Type = "Bank"
	Cash       Type = "Cash"
	CreditCard Type = "Credit Card"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	switch t {
	case Bank, Cash, CreditCard:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// ParseType accepts the canonical names case-insensitively.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{Bank, Cash, CreditCard} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
}

// Account is a user-owned container of money.
//
// Invariants:
//   - Balance is signed. Positive means money held, negative means money owed.
//   - For Credit Card accounts Balance is available credit minus CreditLimit.
//   - CreditLimit is zero for Bank and Cash accounts.
//   - OpeningBalance is the balance the account was created with and never changes.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           Type
	Balance        decimal.Decimal
	CreditLimit    decimal.Decimal
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Builder provides a fluent API for opening new accounts.
type Builder struct {
	id          uuid.UUID
	userID      uuid.UUID
	name        string
	typ         Type
	amount      decimal.Decimal
	creditLimit decimal.Decimal
	createdAt   time.Time
}

// New creates a new Builder with a fresh ID.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owner. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithName sets the display name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.typ = t
	return b
}

// WithAmount sets the opening amount. For Bank and Cash accounts this is the
// balance. For Credit Card accounts it is the currently available credit.
func (b *Builder) WithAmount(amount decimal.Decimal) *Builder {
	b.amount = amount
	return b
}

// WithCreditLimit sets the credit limit of a Credit Card account.
func (b *Builder) WithCreditLimit(limit decimal.Decimal) *Builder {
	b.creditLimit = limit
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the input and derives the stored balance.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	name, err := ValidateName(b.name)
	if err != nil {
		return nil, err
	}
	if !b.typ.Valid() {
		return nil, ErrInvalidAccountType
	}

	balance := b.amount
	limit := decimal.Zero
	if b.typ == CreditCard {
		if b.creditLimit.IsNegative() {
			return nil, ErrNegativeCreditLimit
		}
		if b.amount.IsNegative() {
			return nil, ErrNegativeAvailableCredit
		}
		if b.amount.GreaterThan(b.creditLimit) {
			return nil, ErrAvailableExceedsLimit
		}
		limit = b.creditLimit
		balance = b.amount.Sub(limit)
	} else if !b.creditLimit.IsZero() {
		return nil, ErrCreditLimitNotApplicable
	}

	return &Account{
		ID:             b.id,
		UserID:         b.userID,
		Name:           name,
		Type:           b.typ,
		Balance:        balance,
		CreditLimit:    limit,
		OpeningBalance: balance,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}, nil
}

// ValidateName trims and checks an account name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len([]rune(name)) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// IsCredit reports whether the account is a credit card.
func (a *Account) IsCredit() bool {
	return a.Type == CreditCard
}

// Owned returns ErrNotOwner unless userID owns the account.
func (a *Account) Owned(userID uuid.UUID) error {
	if a.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

// Debt is the amount owed on a credit card. Zero for other types or when
// the card carries a credit balance.
func (a *Account) Debt() decimal.Decimal {
	if !a.IsCredit() || !a.Balance.IsNegative() {
		return decimal.Zero
	}
	return a.Balance.Neg()
}

// Available is the remaining spendable credit on a credit card.
func (a *Account) Available() decimal.Decimal {
	if !a.IsCredit() {
		return a.Balance
	}
	return a.CreditLimit.Add(a.Balance)
}

// Utilization is the debt as a whole percentage of the limit.
// A card with no limit reports zero.
func (a *Account) Utilization() decimal.Decimal {
	if !a.IsCredit() || !a.CreditLimit.IsPositive() {
		return decimal.Zero
	}
	return a.Debt().Div(a.CreditLimit).Mul(decimal.NewFromInt(100)).Round(0)
}

// CanDebit checks whether the account may be debited by amount
// without going below zero. Credit cards are always allowed.
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if a.IsCredit() {
		return nil
	}
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// SetCreditLimit changes the limit of a card. The balance is the amount
// owed and stays the same, so available credit moves with the limit.
func (a *Account) SetCreditLimit(limit decimal.Decimal) error {
	if !a.IsCredit() {
		return ErrCreditLimitNotApplicable
	}
	if limit.IsNegative() {
		return ErrNegativeCreditLimit
	}
	a.CreditLimit = limit
	return nil
}

// NetWorth is the sum of all balances. Card debt is already negative so it
// subtracts naturally.
func NetWorth(accounts []*Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
