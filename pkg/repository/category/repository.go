package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/dto"
)

// Repository stores user-defined categories.
type Repository interface {
	// Create inserts a category. Duplicates per user, type and name report domain.ErrAlreadyExists.
	Create(ctx context.Context, create dto.CategoryCreate) error

	// ListByUser lists the user's categories of a type ordered by name. An empty type lists all.
	ListByUser(ctx context.Context, userID uuid.UUID, typ string) ([]*dto.CategoryRead, error)

	// FindByName looks a category up ignoring case. Missing reports domain.ErrNotFound.
	FindByName(ctx context.Context, userID uuid.UUID, typ, name string) (*dto.CategoryRead, error)
}
