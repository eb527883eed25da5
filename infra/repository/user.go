package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wealthdash/wealthdash/pkg/dto"
	userrepo "github.com/wealthdash/wealthdash/pkg/repository/user"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a CQRS-style user repository using the provided *gorm.DB.
func NewUserRepository(db *gorm.DB) userrepo.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, create *dto.UserCreate) error {
	u := User{
		ID:       create.ID,
		Username: create.Username,
		Email:    strings.ToLower(create.Email),
		Password: create.Password,
		FullName: create.FullName,
		Phone:    create.Phone,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&u).Error
	})
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, update *dto.UserUpdate) error {
	updates := map[string]any{}
	if update.FullName != nil {
		updates["full_name"] = *update.FullName
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if len(updates) == 0 {
		_, err := r.Get(ctx, id)
		return err
	}
	return affected(r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates))
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*dto.UserRead, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapUserModelToDTO(&u), nil
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where(query, arg).Count(&n).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func mapUserModelToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:             u.ID,
		Username:       u.Username,
		HashedPassword: u.Password,
		Email:          u.Email,
		FullName:       u.FullName,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
