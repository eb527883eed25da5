package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized DTO for account queries.
type AccountRead struct {
	ID             uuid.UUID       // Unique account identifier
	UserID         uuid.UUID       // User who owns the account
	Name           string          // Display name
	Type           string          // Bank, Cash or Credit Card
	Balance        decimal.Decimal // Signed balance
	CreditLimit    decimal.Decimal // Zero unless Credit Card
	OpeningBalance decimal.Decimal // Balance at creation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           string
	Balance        decimal.Decimal
	CreditLimit    decimal.Decimal
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
}

// AccountUpdate is a DTO for updating one or more fields of an account.
// Relative balance changes go through AdjustBalance instead.
type AccountUpdate struct {
	Name        *string          // Optional rename
	CreditLimit *decimal.Decimal // Optional credit limit
	Balance     *decimal.Decimal // Absolute balance, used by resync only
}
