package repository

import (
	"context"
	"reflect"

	"github.com/wealthdash/wealthdash/pkg/repository/account"
	"github.com/wealthdash/wealthdash/pkg/repository/category"
	"github.com/wealthdash/wealthdash/pkg/repository/transaction"
	"github.com/wealthdash/wealthdash/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share its session,
// so all writes inside fn commit or roll back together when the store
// supports it. Example usage:
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*account.Repository)(nil)).Elem())
//	repo := repoAny.(account.Repository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	// Transactional reports whether Do rolls back on error. Stores that
	// cannot roll back leave compensation to the caller.
	Transactional() bool

	// Type-safe repository access methods (convenience methods)
	AccountRepository() (account.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	CategoryRepository() (category.Repository, error)
	UserRepository() (user.Repository, error)
}

// Interface types used as registry keys.
var (
	AccountRepositoryType     = reflect.TypeOf((*account.Repository)(nil)).Elem()
	TransactionRepositoryType = reflect.TypeOf((*transaction.Repository)(nil)).Elem()
	CategoryRepositoryType    = reflect.TypeOf((*category.Repository)(nil)).Elem()
	UserRepositoryType        = reflect.TypeOf((*user.Repository)(nil)).Elem()
)
