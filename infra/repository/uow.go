package repository

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
	categoryrepo "github.com/wealthdash/wealthdash/pkg/repository/category"
	transactionrepo "github.com/wealthdash/wealthdash/pkg/repository/transaction"
	userrepo "github.com/wealthdash/wealthdash/pkg/repository/user"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.AccountRepositoryType:     func(db *gorm.DB) any { return NewAccountRepository(db) },
			repository.TransactionRepositoryType: func(db *gorm.DB) any { return NewTransactionRepository(db) },
			repository.CategoryRepositoryType:    func(db *gorm.DB) any { return NewCategoryRepository(db) },
			repository.UserRepositoryType:        func(db *gorm.DB) any { return NewUserRepository(db) },
		},
	}
}

// Do runs fn inside a database transaction. Any error rolls everything back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// Transactional is always true: Do rolls back on error.
func (u *UoW) Transactional() bool { return true }

// GetRepository returns a repository bound to the transaction session, or
// to the plain connection outside Do.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) AccountRepository() (accountrepo.Repository, error) {
	return typed[accountrepo.Repository](u, repository.AccountRepositoryType)
}

func (u *UoW) TransactionRepository() (transactionrepo.Repository, error) {
	return typed[transactionrepo.Repository](u, repository.TransactionRepositoryType)
}

func (u *UoW) CategoryRepository() (categoryrepo.Repository, error) {
	return typed[categoryrepo.Repository](u, repository.CategoryRepositoryType)
}

func (u *UoW) UserRepository() (userrepo.Repository, error) {
	return typed[userrepo.Repository](u, repository.UserRepositoryType)
}

func typed[T any](u *UoW, t reflect.Type) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(t)
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
