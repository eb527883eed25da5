package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wealthdash/wealthdash/pkg/domain"
)

// MapGormErrorToDomain converts GORM errors to domain errors, looking
// through the whole chain. Unmapped errors are returned unchanged.
func MapGormErrorToDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
// Usage:
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(user).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// affected maps a write that matched no row to domain.ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
