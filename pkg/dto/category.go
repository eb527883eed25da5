package dto

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRead is a stored user category.
type CategoryRead struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
}

// CategoryCreate is a DTO for registering a user category.
type CategoryCreate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
}
