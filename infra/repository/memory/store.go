// Package memory is a process-local store behind the repository interfaces.
// It has no rollback: Do runs fn directly and writes are visible at once.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
	categoryrepo "github.com/wealthdash/wealthdash/pkg/repository/category"
	transactionrepo "github.com/wealthdash/wealthdash/pkg/repository/transaction"
	userrepo "github.com/wealthdash/wealthdash/pkg/repository/user"
)

// Store holds every table in maps guarded by one mutex.
type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]dto.UserRead
	accounts     map[uuid.UUID]dto.AccountRead
	transactions map[uuid.UUID]dto.TransactionRead
	categories   map[uuid.UUID]dto.CategoryRead
	now          func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]dto.UserRead),
		accounts:     make(map[uuid.UUID]dto.AccountRead),
		transactions: make(map[uuid.UUID]dto.TransactionRead),
		categories:   make(map[uuid.UUID]dto.CategoryRead),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// UoW implements repository.UnitOfWork over a Store.
type UoW struct {
	store        *Store
	repoRegistry map[reflect.Type]func(*Store) any
}

// NewUoW creates a UnitOfWork backed by store.
func NewUoW(store *Store) *UoW {
	return &UoW{
		store: store,
		repoRegistry: map[reflect.Type]func(*Store) any{
			repository.AccountRepositoryType:     func(s *Store) any { return &accounts{s} },
			repository.TransactionRepositoryType: func(s *Store) any { return &transactions{s} },
			repository.CategoryRepositoryType:    func(s *Store) any { return &categories{s} },
			repository.UserRepositoryType:        func(s *Store) any { return &users{s} },
		},
	}
}

// Do runs fn. There is no rollback.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u)
}

// Transactional is false: failed work is not undone by the store.
func (u *UoW) Transactional() bool { return false }

// GetRepository returns the repository registered for repoType.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.store), nil
}

func (u *UoW) AccountRepository() (accountrepo.Repository, error) {
	return &accounts{u.store}, nil
}

func (u *UoW) TransactionRepository() (transactionrepo.Repository, error) {
	return &transactions{u.store}, nil
}

func (u *UoW) CategoryRepository() (categoryrepo.Repository, error) {
	return &categories{u.store}, nil
}

func (u *UoW) UserRepository() (userrepo.Repository, error) {
	return &users{u.store}, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)

type accounts struct{ s *Store }

func (r *accounts) Create(ctx context.Context, create dto.AccountCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[create.ID]; ok {
		return domain.ErrAlreadyExists
	}
	created := create.CreatedAt
	if created.IsZero() {
		created = r.s.now()
	}
	r.s.accounts[create.ID] = dto.AccountRead{
		ID:             create.ID,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Balance:        create.Balance,
		CreditLimit:    create.CreditLimit,
		OpeningBalance: create.OpeningBalance,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	return nil
}

func (r *accounts) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Name != nil {
		acc.Name = *update.Name
	}
	if update.CreditLimit != nil {
		acc.CreditLimit = *update.CreditLimit
	}
	if update.Balance != nil {
		acc.Balance = *update.Balance
	}
	acc.UpdatedAt = r.s.now()
	r.s.accounts[id] = acc
	return nil
}

func (r *accounts) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	acc.Balance = acc.Balance.Add(delta)
	acc.UpdatedAt = r.s.now()
	r.s.accounts[id] = acc
	return nil
}

func (r *accounts) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &acc, nil
}

func (r *accounts) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*dto.AccountRead, 0)
	for _, acc := range r.s.accounts {
		if acc.UserID == userID {
			acc := acc
			result = append(result, &acc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *accounts) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

type transactions struct{ s *Store }

func (r *transactions) Create(ctx context.Context, create dto.TransactionCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[create.ID]; ok {
		return domain.ErrAlreadyExists
	}
	created := create.CreatedAt
	if created.IsZero() {
		created = r.s.now()
	}
	r.s.transactions[create.ID] = dto.TransactionRead{
		ID:              create.ID,
		UserID:          create.UserID,
		AccountID:       create.AccountID,
		TargetAccountID: cloneID(create.TargetAccountID),
		Amount:          create.Amount,
		Type:            create.Type,
		Category:        create.Category,
		Necessity:       cloneString(create.Necessity),
		Description:     create.Description,
		Date:            create.Date,
		Emoji:           create.Emoji,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	return nil
}

func (r *transactions) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	tx.AccountID = update.AccountID
	tx.TargetAccountID = cloneID(update.TargetAccountID)
	tx.Amount = update.Amount
	tx.Type = update.Type
	tx.Category = update.Category
	tx.Necessity = cloneString(update.Necessity)
	tx.Description = update.Description
	tx.Date = update.Date
	tx.Emoji = update.Emoji
	tx.UpdatedAt = r.s.now()
	r.s.transactions[id] = tx
	return nil
}

func (r *transactions) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.s.joinAccount(&tx)
	return &tx, nil
}

func (r *transactions) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

func (r *transactions) List(ctx context.Context, filter dto.TransactionFilter) ([]*dto.TransactionRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*dto.TransactionRead, 0)
	for _, tx := range r.s.transactions {
		if !matches(tx, filter) {
			continue
		}
		tx := tx
		r.s.joinAccount(&tx)
		result = append(result, &tx)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() > b.ID.String()
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *transactions) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, tx := range r.s.transactions {
		if tx.Touches(accountID) {
			n++
		}
	}
	return n, nil
}

func matches(tx dto.TransactionRead, f dto.TransactionFilter) bool {
	if tx.UserID != f.UserID {
		return false
	}
	if f.AccountID != nil && !tx.Touches(*f.AccountID) {
		return false
	}
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Date.After(*f.To) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	return true
}

// joinAccount fills the denormalized account columns. Caller holds the lock.
func (s *Store) joinAccount(tx *dto.TransactionRead) {
	if acc, ok := s.accounts[tx.AccountID]; ok {
		tx.AccountName = acc.Name
		tx.AccountType = acc.Type
	}
}

type categories struct{ s *Store }

func (r *categories) Create(ctx context.Context, create dto.CategoryCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.UserID == create.UserID && c.Type == create.Type && strings.EqualFold(c.Name, create.Name) {
			return domain.ErrAlreadyExists
		}
	}
	created := create.CreatedAt
	if created.IsZero() {
		created = r.s.now()
	}
	r.s.categories[create.ID] = dto.CategoryRead{
		ID:        create.ID,
		UserID:    create.UserID,
		Name:      create.Name,
		Type:      create.Type,
		CreatedAt: created,
	}
	return nil
}

func (r *categories) ListByUser(ctx context.Context, userID uuid.UUID, typ string) ([]*dto.CategoryRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*dto.CategoryRead, 0)
	for _, c := range r.s.categories {
		if c.UserID == userID && (typ == "" || c.Type == typ) {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *categories) FindByName(ctx context.Context, userID uuid.UUID, typ, name string) (*dto.CategoryRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.UserID == userID && c.Type == typ && strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type users struct{ s *Store }

func (r *users) Create(ctx context.Context, create *dto.UserCreate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, create.Email) || u.Username == create.Username {
			return domain.ErrAlreadyExists
		}
	}
	now := r.s.now()
	r.s.users[create.ID] = dto.UserRead{
		ID:             create.ID,
		Username:       create.Username,
		HashedPassword: create.Password,
		Email:          create.Email,
		FullName:       create.FullName,
		Phone:          create.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return nil
}

func (r *users) Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Password != nil {
		u.HashedPassword = *update.Password
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *users) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *users) GetByUsername(ctx context.Context, username string) (*dto.UserRead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
