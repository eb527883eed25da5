package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/dto"
)

// Repository defines the interface for transaction data
// access operations with support for CQRS (Command/Query Responsibility Segregation).
// Missing rows are reported as domain.ErrNotFound.
type Repository interface {
	// Create inserts a new transaction record from a DTO.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// Update replaces the mutable fields of a transaction.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error

	// Get retrieves a transaction by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// Delete removes a transaction by its ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the user's transactions, newest date first, then newest created first.
	List(ctx context.Context, filter dto.TransactionFilter) ([]*dto.TransactionRead, error)

	// CountByAccount counts transactions that reference the account as source or target.
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}
