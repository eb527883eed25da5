package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:50"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Password  string    `gorm:"not null"`
	FullName  string    `gorm:"size:255"`
	Phone     string    `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account represents an account record in the database. Balances are
// signed with two decimal places.
type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name           string          `gorm:"size:100;not null"`
	Type           string          `gorm:"size:20;not null"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transaction represents a persisted income, expense or transfer.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID       `gorm:"type:uuid;index:idx_transactions_user_date,priority:1;not null"`
	AccountID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	TargetAccountID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Type            string          `gorm:"size:16;not null"`
	Category        string          `gorm:"size:50;not null"`
	Necessity       *string         `gorm:"size:16"`
	Description     string          `gorm:"size:255"`
	Date            time.Time       `gorm:"index:idx_transactions_user_date,priority:2;not null"`
	Emoji           string          `gorm:"size:16"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Category represents a user-defined category. NameKey is the lowercased
// name and carries the uniqueness constraint.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_categories_user_type_name,priority:1;not null"`
	Type      string    `gorm:"size:16;uniqueIndex:idx_categories_user_type_name,priority:2;not null"`
	NameKey   string    `gorm:"size:50;uniqueIndex:idx_categories_user_type_name,priority:3;not null"`
	Name      string    `gorm:"size:50;not null"`
	CreatedAt time.Time
}

// Models lists every table for migrations.
func Models() []any {
	return []any{&User{}, &Account{}, &Transaction{}, &Category{}}
}
