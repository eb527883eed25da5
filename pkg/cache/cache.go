package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the cached per-user aggregate shown on the dashboard.
type Summary struct {
	NetWorth     decimal.Decimal `json:"net_worth"`
	AccountCount int             `json:"account_count"`
	ComputedAt   time.Time       `json:"computed_at"`
}

// SummaryCache stores per-user summaries. Get returns nil, nil on a miss.
type SummaryCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Set(ctx context.Context, userID uuid.UUID, s *Summary, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
