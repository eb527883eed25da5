package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
)

// AddNewCategory is the category value a form sends when the user wants to
// register NewCategory instead of picking an existing one.
const AddNewCategory = "+ Add New"

// Draft is the complete input of a create or edit form. It is passed by
// value and validated as a whole before any store is touched.
type Draft struct {
	Type            Type
	Amount          decimal.Decimal
	AccountID       uuid.UUID
	TargetAccountID *uuid.UUID
	Category        string
	NewCategory     string
	Necessity       *Necessity
	Description     string
	Date            time.Time
	Emoji           string
}

// WantsNewCategory reports whether the draft registers a new category.
func (d Draft) WantsNewCategory() bool {
	return d.Type != Transfer && d.Category == AddNewCategory
}

// CategoryType is the category group the draft files under.
func (d Draft) CategoryType() category.Type {
	return category.Type(d.Type)
}

// Normalize returns a copy with type-dependent fields made consistent:
// transfers get the Transfer category and no necessity, expenses default to
// Needs, non-transfers drop any target, and a blank emoji gets the default.
func (d Draft) Normalize() Draft {
	d.Category = strings.TrimSpace(d.Category)
	d.NewCategory = strings.TrimSpace(d.NewCategory)
	d.Description = strings.TrimSpace(d.Description)
	d.Emoji = strings.TrimSpace(d.Emoji)

	switch d.Type {
	case Transfer:
		d.Category = category.Transfer
		d.NewCategory = ""
		d.Necessity = nil
	case Expense:
		d.TargetAccountID = nil
		if d.Necessity == nil {
			n := Needs
			d.Necessity = &n
		}
	case Income:
		d.TargetAccountID = nil
		d.Necessity = nil
	}
	if d.TargetAccountID != nil && *d.TargetAccountID == uuid.Nil {
		d.TargetAccountID = nil
	}
	if d.Emoji == "" {
		d.Emoji = DefaultEmoji(d.Type)
	}
	if !d.Date.IsZero() {
		d.Date = DateOf(d.Date)
	}
	return d
}

// Validate checks every field and reports all problems at once. The
// returned error wraps domain.ErrValidation and each individual cause.
func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %w", domain.ErrValidation, ErrInvalidType)
	}

	var errs []error
	if !d.Amount.IsPositive() {
		errs = append(errs, ErrAmountMustBePositive)
	}
	if d.AccountID == uuid.Nil {
		errs = append(errs, ErrAccountRequired)
	}
	if d.Type == Transfer {
		switch {
		case d.TargetAccountID == nil || *d.TargetAccountID == uuid.Nil:
			errs = append(errs, ErrTargetRequired)
		case *d.TargetAccountID == d.AccountID:
			errs = append(errs, ErrSameAccount)
		}
	} else {
		switch {
		case d.WantsNewCategory():
			if d.NewCategory == "" {
				errs = append(errs, ErrNewCategoryNameRequired)
			} else if _, err := category.ValidateName(d.NewCategory); err != nil {
				errs = append(errs, err)
			}
		case d.Category == "":
			errs = append(errs, ErrCategoryRequired)
		}
	}
	if d.Necessity != nil && !d.Necessity.Valid() {
		errs = append(errs, ErrInvalidNecessity)
	}
	if d.Date.IsZero() {
		errs = append(errs, ErrDateRequired)
	}
	if len([]rune(d.Description)) > MaxDescriptionLength {
		errs = append(errs, ErrDescriptionTooLong)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
}

// Effect returns the balance effect the draft would have once persisted.
func (d Draft) Effect() (Effect, error) {
	return EffectOf(d.Type, d.Amount, d.AccountID, d.TargetAccountID)
}

// Changes holds the optional fields of an edit. Nil means unchanged.
type Changes struct {
	Type            *Type
	Amount          *decimal.Decimal
	AccountID       *uuid.UUID
	TargetAccountID *uuid.UUID
	Category        *string
	NewCategory     *string
	Necessity       *Necessity
	Description     *string
	Date            *time.Time
	Emoji           *string
}

// Apply merges c into the stored transaction and returns the normalized
// draft of the result. When the type changes, an unchanged category falls
// back to the new type's default and a default emoji follows the type.
func (t *Transaction) Apply(c Changes) Draft {
	d := t.Draft()
	typeChanged := c.Type != nil && *c.Type != t.Type

	if c.Type != nil {
		d.Type = *c.Type
	}
	if c.Amount != nil {
		d.Amount = *c.Amount
	}
	if c.AccountID != nil {
		d.AccountID = *c.AccountID
	}
	if c.TargetAccountID != nil {
		target := *c.TargetAccountID
		d.TargetAccountID = &target
	}
	if c.Category != nil {
		d.Category = *c.Category
	}
	if c.NewCategory != nil {
		d.NewCategory = *c.NewCategory
	}
	if c.Necessity != nil {
		n := *c.Necessity
		d.Necessity = &n
	}
	if c.Description != nil {
		d.Description = *c.Description
	}
	if c.Date != nil {
		d.Date = *c.Date
	}
	if c.Emoji != nil {
		d.Emoji = *c.Emoji
	}

	if typeChanged {
		if c.Category == nil && d.Type != Transfer {
			d.Category = category.DefaultFor(category.Type(d.Type))
		}
		if c.Emoji == nil && (t.Emoji == "" || t.Emoji == DefaultEmoji(t.Type)) {
			d.Emoji = ""
		}
		if c.Necessity == nil {
			d.Necessity = nil
		}
	}
	return d.Normalize()
}
