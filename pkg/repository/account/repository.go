package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/dto"
)

// Repository defines the interface for account data access operations with support for CQRS (Command/Query Responsibility Segregation).
// Missing rows are reported as domain.ErrNotFound.
type Repository interface {
	// Create inserts a new account record from a DTO.
	Create(ctx context.Context, create dto.AccountCreate) error

	// Update updates an existing account by its ID using a DTO.
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error

	// AdjustBalance adds delta to the stored balance in a single statement.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// Get retrieves an account by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)

	// ListByUser lists all accounts for a given user ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error)

	// Delete removes an account by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
