package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wealthdash/wealthdash/pkg/dto"
	transactionrepo "github.com/wealthdash/wealthdash/pkg/repository/transaction"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a CQRS-style transaction repository using the provided *gorm.DB.
func NewTransactionRepository(db *gorm.DB) transactionrepo.Repository {
	return &transactionRepository{db: db}
}

// transactionRow is a transaction joined with its source account.
type transactionRow struct {
	Transaction `gorm:"embedded"`
	AccountName string
	AccountType string
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := Transaction{
		ID:              create.ID,
		UserID:          create.UserID,
		AccountID:       create.AccountID,
		TargetAccountID: create.TargetAccountID,
		Amount:          create.Amount,
		Type:            create.Type,
		Category:        create.Category,
		Necessity:       create.Necessity,
		Description:     create.Description,
		Date:            create.Date,
		Emoji:           create.Emoji,
		CreatedAt:       create.CreatedAt,
		UpdatedAt:       create.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&tx).Error
	})
}

// Update replaces every mutable column. Nil pointers are written as NULL.
func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	return affected(r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", id).Updates(map[string]any{
		"account_id":        update.AccountID,
		"target_account_id": update.TargetAccountID,
		"amount":            update.Amount,
		"type":              update.Type,
		"category":          update.Category,
		"necessity":         update.Necessity,
		"description":       update.Description,
		"date":              update.Date,
		"emoji":             update.Emoji,
		"updated_at":        r.db.NowFunc(),
	}))
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var row transactionRow
	err := r.joined(ctx).Where("transactions.id = ?", id).Take(&row).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapTransactionRowToDTO(&row), nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id))
}

// List orders by date, then creation time, newest first.
func (r *transactionRepository) List(ctx context.Context, filter dto.TransactionFilter) ([]*dto.TransactionRead, error) {
	q := r.joined(ctx).Where("transactions.user_id = ?", filter.UserID)
	if filter.AccountID != nil {
		q = q.Where("(transactions.account_id = ? OR transactions.target_account_id = ?)", *filter.AccountID, *filter.AccountID)
	}
	if filter.From != nil {
		q = q.Where("transactions.date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("transactions.date <= ?", *filter.To)
	}
	if filter.Type != "" {
		q = q.Where("transactions.type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []transactionRow
	err := q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "transactions", Name: "date"}, Desc: true},
		{Column: clause.Column{Table: "transactions", Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: "transactions", Name: "id"}},
	}}).Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.TransactionRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapTransactionRowToDTO(&rows[i]))
	}
	return result, nil
}

// CountByAccount counts transactions using the account on either side.
func (r *transactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("account_id = ? OR target_account_id = ?", accountID, accountID).
		Count(&n).Error
	return n, MapGormErrorToDomain(err)
}

func (r *transactionRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&Transaction{}).
		Select("transactions.*, accounts.name AS account_name, accounts.type AS account_type").
		Joins("LEFT JOIN accounts ON accounts.id = transactions.account_id")
}

func mapTransactionRowToDTO(row *transactionRow) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:              row.ID,
		UserID:          row.UserID,
		AccountID:       row.AccountID,
		TargetAccountID: row.TargetAccountID,
		Amount:          row.Amount,
		Type:            row.Type,
		Category:        row.Category,
		Necessity:       row.Necessity,
		Description:     row.Description,
		Date:            row.Date,
		Emoji:           row.Emoji,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		AccountName:     row.AccountName,
		AccountType:     row.AccountType,
	}
}
