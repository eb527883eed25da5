package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is a read-optimized DTO for transaction queries and reports.
type TransactionRead struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	TargetAccountID *uuid.UUID
	Amount          decimal.Decimal
	Type            string
	Category        string
	Necessity       *string
	Description     string
	Date            time.Time
	Emoji           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Denormalized from the source account for listings.
	AccountName string
	AccountType string
}

// Touches reports whether the transaction uses accountID as source or target.
func (t TransactionRead) Touches(accountID uuid.UUID) bool {
	if t.AccountID == accountID {
		return true
	}
	return t.TargetAccountID != nil && *t.TargetAccountID == accountID
}

// TransactionCreate is a DTO for creating a new transaction.
type TransactionCreate struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	AccountID       uuid.UUID
	TargetAccountID *uuid.UUID
	Amount          decimal.Decimal
	Type            string
	Category        string
	Necessity       *string
	Description     string
	Date            time.Time
	Emoji           string
	CreatedAt       time.Time
}

// TransactionUpdate replaces every mutable field of a transaction.
// Nil TargetAccountID and Necessity are written as NULL.
type TransactionUpdate struct {
	AccountID       uuid.UUID
	TargetAccountID *uuid.UUID
	Amount          decimal.Decimal
	Type            string
	Category        string
	Necessity       *string
	Description     string
	Date            time.Time
	Emoji           string
}

// TransactionFilter narrows a transaction listing. Zero values mean no filter.
type TransactionFilter struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID // matches source or target
	From      *time.Time // inclusive
	To        *time.Time // inclusive
	Type      string
	Limit     int
}
