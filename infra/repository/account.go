package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wealthdash/wealthdash/pkg/dto"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a CQRS-style account repository using the provided *gorm.DB.
func NewAccountRepository(db *gorm.DB) accountrepo.Repository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	acct := Account{
		ID:             create.ID,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Balance:        create.Balance,
		CreditLimit:    create.CreditLimit,
		OpeningBalance: create.OpeningBalance,
		CreatedAt:      create.CreatedAt,
		UpdatedAt:      create.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&acct).Error
	})
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.CreditLimit != nil {
		updates["credit_limit"] = *update.CreditLimit
	}
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if len(updates) == 0 {
		return nil
	}
	return affected(r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates))
}

// AdjustBalance updates the balance relative to its stored value so
// concurrent writers never overwrite each other.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return affected(r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": r.db.NowFunc(),
		}))
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDTO(&acct), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	var accts []Account
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&accts).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapAccountModelToDTO(&accts[i]))
	}
	return result, nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id))
}

func mapAccountModelToDTO(acct *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             acct.ID,
		UserID:         acct.UserID,
		Name:           acct.Name,
		Type:           acct.Type,
		Balance:        acct.Balance,
		CreditLimit:    acct.CreditLimit,
		OpeningBalance: acct.OpeningBalance,
		CreatedAt:      acct.CreatedAt,
		UpdatedAt:      acct.UpdatedAt,
	}
}
