package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wealthdash/wealthdash/pkg/dto"
	categoryrepo "github.com/wealthdash/wealthdash/pkg/repository/category"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository using the provided *gorm.DB.
func NewCategoryRepository(db *gorm.DB) categoryrepo.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, create dto.CategoryCreate) error {
	c := Category{
		ID:        create.ID,
		UserID:    create.UserID,
		Type:      create.Type,
		NameKey:   strings.ToLower(create.Name),
		Name:      create.Name,
		CreatedAt: create.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&c).Error
	})
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, typ string) ([]*dto.CategoryRead, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var rows []Category
	if err := q.Order("name_key").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.CategoryRead, 0, len(rows))
	for i := range rows {
		result = append(result, mapCategoryModelToDTO(&rows[i]))
	}
	return result, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, userID uuid.UUID, typ, name string) (*dto.CategoryRead, error) {
	var c Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND name_key = ?", userID, typ, strings.ToLower(strings.TrimSpace(name))).
		First(&c).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapCategoryModelToDTO(&c), nil
}

func mapCategoryModelToDTO(c *Category) *dto.CategoryRead {
	return &dto.CategoryRead{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      c.Type,
		CreatedAt: c.CreatedAt,
	}
}
