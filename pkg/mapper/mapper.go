package mapper

import (
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/domain/user"
	"github.com/wealthdash/wealthdash/pkg/dto"
)

// MapAccountReadToDomain maps a dto.AccountRead to a domain Account.
func MapAccountReadToDomain(d *dto.AccountRead) *account.Account {
	return &account.Account{
		ID:             d.ID,
		UserID:         d.UserID,
		Name:           d.Name,
		Type:           account.Type(d.Type),
		Balance:        d.Balance,
		CreditLimit:    d.CreditLimit,
		OpeningBalance: d.OpeningBalance,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MapAccountToCreateDTO maps a freshly built Account to its insert DTO.
func MapAccountToCreateDTO(a *account.Account) dto.AccountCreate {
	return dto.AccountCreate{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance,
		CreditLimit:    a.CreditLimit,
		OpeningBalance: a.OpeningBalance,
		CreatedAt:      a.CreatedAt,
	}
}

// MapTransactionReadToDomain maps a dto.TransactionRead to a domain Transaction.
func MapTransactionReadToDomain(d *dto.TransactionRead) *transaction.Transaction {
	tx := &transaction.Transaction{
		ID:              d.ID,
		UserID:          d.UserID,
		AccountID:       d.AccountID,
		TargetAccountID: d.TargetAccountID,
		Amount:          d.Amount,
		Type:            transaction.Type(d.Type),
		Category:        d.Category,
		Description:     d.Description,
		Date:            d.Date,
		Emoji:           d.Emoji,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Necessity != nil {
		n := transaction.Necessity(*d.Necessity)
		tx.Necessity = &n
	}
	return tx
}

// MapTransactionToCreateDTO maps a domain Transaction to its insert DTO.
func MapTransactionToCreateDTO(t *transaction.Transaction) dto.TransactionCreate {
	return dto.TransactionCreate{
		ID:              t.ID,
		UserID:          t.UserID,
		AccountID:       t.AccountID,
		TargetAccountID: t.TargetAccountID,
		Amount:          t.Amount,
		Type:            string(t.Type),
		Category:        t.Category,
		Necessity:       necessityString(t.Necessity),
		Description:     t.Description,
		Date:            t.Date,
		Emoji:           t.Emoji,
		CreatedAt:       t.CreatedAt,
	}
}

// MapDraftToUpdateDTO maps a validated draft to the full-row update DTO.
func MapDraftToUpdateDTO(d transaction.Draft) dto.TransactionUpdate {
	return dto.TransactionUpdate{
		AccountID:       d.AccountID,
		TargetAccountID: d.TargetAccountID,
		Amount:          d.Amount,
		Type:            string(d.Type),
		Category:        d.Category,
		Necessity:       necessityString(d.Necessity),
		Description:     d.Description,
		Date:            d.Date,
		Emoji:           d.Emoji,
	}
}

// MapCategoryReadToDomain maps a dto.CategoryRead to a domain Category.
func MapCategoryReadToDomain(d *dto.CategoryRead) *category.Category {
	return &category.Category{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Type:      category.Type(d.Type),
		CreatedAt: d.CreatedAt,
	}
}

// MapUserReadToDomain maps a dto.UserRead to a domain User.
func MapUserReadToDomain(d *dto.UserRead) *user.User {
	return &user.User{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.HashedPassword,
		FullName:  d.FullName,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func necessityString(n *transaction.Necessity) *string {
	if n == nil {
		return nil
	}
	s := string(*n)
	return &s
}
