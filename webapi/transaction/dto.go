package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
)

//revive:disable

// CreateTransactionRequest is the add-transaction form. Category "+ Add New"
// together with NewCategory registers a category on the fly.
type CreateTransactionRequest struct {
	Type            string          `json:"type" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	AccountID       string          `json:"account_id" validate:"required,uuid"`
	TargetAccountID string          `json:"target_account_id" validate:"omitempty,uuid"`
	Category        string          `json:"category" validate:"max=50"`
	NewCategory     string          `json:"new_category" validate:"max=50"`
	Necessity       string          `json:"necessity"`
	Description     string          `json:"description" validate:"max=255"`
	Date            string          `json:"date" validate:"required,datetime=2006-01-02"`
	Emoji           string          `json:"emoji" validate:"max=16"`
}

// EditTransactionRequest carries the fields to change. Absent fields keep
// their stored value.
type EditTransactionRequest struct {
	Type            *string          `json:"type,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	AccountID       *string          `json:"account_id,omitempty" validate:"omitempty,uuid"`
	TargetAccountID *string          `json:"target_account_id,omitempty" validate:"omitempty,uuid"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=50"`
	NewCategory     *string          `json:"new_category,omitempty" validate:"omitempty,max=50"`
	Necessity       *string          `json:"necessity,omitempty"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=255"`
	Date            *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Emoji           *string          `json:"emoji,omitempty" validate:"omitempty,max=16"`
}

// TransactionDTO is the API response representation of a transaction.
type TransactionDTO struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	AccountID       string          `json:"account_id"`
	AccountName     string          `json:"account_name,omitempty"`
	AccountType     string          `json:"account_type,omitempty"`
	TargetAccountID *string         `json:"target_account_id,omitempty"`
	Category        string          `json:"category"`
	Necessity       *string         `json:"necessity,omitempty"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	Emoji           string          `json:"emoji"`
	CreatedAt       time.Time       `json:"created_at"`
}

//revive:enable

func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

// ToDraft converts the form into a domain draft.
func (r CreateTransactionRequest) ToDraft() (transaction.Draft, error) {
	typ, err := transaction.ParseType(r.Type)
	if err != nil {
		return transaction.Draft{}, invalid(err)
	}
	d := transaction.Draft{
		Type:        typ,
		Amount:      r.Amount,
		Category:    r.Category,
		NewCategory: r.NewCategory,
		Description: r.Description,
		Emoji:       r.Emoji,
	}
	if d.AccountID, err = uuid.Parse(r.AccountID); err != nil {
		return transaction.Draft{}, invalid(err)
	}
	if r.TargetAccountID != "" {
		target, err := uuid.Parse(r.TargetAccountID)
		if err != nil {
			return transaction.Draft{}, invalid(err)
		}
		d.TargetAccountID = &target
	}
	if r.Necessity != "" {
		n, err := transaction.ParseNecessity(r.Necessity)
		if err != nil {
			return transaction.Draft{}, invalid(err)
		}
		d.Necessity = &n
	}
	if d.Date, err = transaction.ParseDate(r.Date); err != nil {
		return transaction.Draft{}, invalid(err)
	}
	return d, nil
}

// ToChanges converts the edit body into domain changes.
func (r EditTransactionRequest) ToChanges() (transaction.Changes, error) {
	c := transaction.Changes{
		Amount:      r.Amount,
		Category:    r.Category,
		NewCategory: r.NewCategory,
		Description: r.Description,
		Emoji:       r.Emoji,
	}
	if r.Type != nil {
		typ, err := transaction.ParseType(*r.Type)
		if err != nil {
			return c, invalid(err)
		}
		c.Type = &typ
	}
	if r.AccountID != nil {
		id, err := uuid.Parse(*r.AccountID)
		if err != nil {
			return c, invalid(err)
		}
		c.AccountID = &id
	}
	if r.TargetAccountID != nil {
		id, err := uuid.Parse(*r.TargetAccountID)
		if err != nil {
			return c, invalid(err)
		}
		c.TargetAccountID = &id
	}
	if r.Necessity != nil {
		n, err := transaction.ParseNecessity(*r.Necessity)
		if err != nil {
			return c, invalid(err)
		}
		c.Necessity = &n
	}
	if r.Date != nil {
		date, err := transaction.ParseDate(*r.Date)
		if err != nil {
			return c, invalid(err)
		}
		c.Date = &date
	}
	return c, nil
}

// FromDomain maps a reconciled transaction to its response shape.
func FromDomain(t *transaction.Transaction) TransactionDTO {
	out := TransactionDTO{
		ID:          t.ID.String(),
		Type:        t.Type.String(),
		Amount:      t.Amount,
		AccountID:   t.AccountID.String(),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(transaction.DateLayout),
		Emoji:       t.Emoji,
		CreatedAt:   t.CreatedAt,
	}
	if t.TargetAccountID != nil {
		s := t.TargetAccountID.String()
		out.TargetAccountID = &s
	}
	if t.Necessity != nil {
		s := string(*t.Necessity)
		out.Necessity = &s
	}
	return out
}

// FromRead maps a listed transaction, which carries its account name and type.
func FromRead(t *dto.TransactionRead) TransactionDTO {
	out := TransactionDTO{
		ID:          t.ID.String(),
		Type:        t.Type,
		Amount:      t.Amount,
		AccountID:   t.AccountID.String(),
		AccountName: t.AccountName,
		AccountType: t.AccountType,
		Category:    t.Category,
		Necessity:   t.Necessity,
		Description: t.Description,
		Date:        t.Date.Format(transaction.DateLayout),
		Emoji:       t.Emoji,
		CreatedAt:   t.CreatedAt,
	}
	if t.TargetAccountID != nil {
		s := t.TargetAccountID.String()
		out.TargetAccountID = &s
	}
	return out
}
