// Package category lists and registers the labels users file transactions under.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/mapper"
	"github.com/wealthdash/wealthdash/pkg/repository"
	categoryrepo "github.com/wealthdash/wealthdash/pkg/repository/category"
)

// Service provides category listing and registration.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns the defaults of t followed by the user's categories of t.
func (s *Service) List(ctx context.Context, userID uuid.UUID, t category.Type) (names []string, err error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, category.ErrInvalidType)
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		rows, err := repo.ListByUser(ctx, userID, string(t))
		if err != nil {
			return err
		}
		custom := make([]*category.Category, 0, len(rows))
		for _, r := range rows {
			custom = append(custom, mapper.MapCategoryReadToDomain(r))
		}
		names = category.Merge(t, custom)
		return nil
	})
	return names, err
}

// Create registers a category for the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, t category.Type) (c *category.Category, err error) {
	logger := s.logger.With("user_id", userID, "type", t)
	logger.Info("CreateCategory started")
	c, err = category.New(userID, name, t)
	if err != nil {
		logger.Warn("CreateCategory failed: invalid category", "error", err)
		if errors.Is(err, category.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, createDTO(c)); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return category.ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Error("CreateCategory failed", "error", err)
		return nil, err
	}
	logger.Info("CreateCategory successful", "category", c.Name)
	return c, nil
}

// Resolve returns the category name a draft files under. A draft asking
// for a new category registers it unless it already exists; any other name
// must be a default or one of the user's categories. Defaults and existing
// names come back in their stored spelling.
func Resolve(ctx context.Context, repo categoryrepo.Repository, userID uuid.UUID, d transaction.Draft) (string, error) {
	if d.Type == transaction.Transfer {
		return category.Transfer, nil
	}
	t := d.CategoryType()
	name := d.Category
	if d.WantsNewCategory() {
		name = d.NewCategory
	}
	name, err := category.ValidateName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	for _, def := range category.Defaults(t) {
		if strings.EqualFold(def, name) {
			return def, nil
		}
	}
	existing, err := repo.FindByName(ctx, userID, string(t), name)
	if err == nil {
		return existing.Name, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if !d.WantsNewCategory() {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, category.ErrUnknown)
	}

	c, err := category.New(userID, name, t)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := repo.Create(ctx, createDTO(c)); err != nil {
		return "", err
	}
	return c.Name, nil
}

func createDTO(c *category.Category) dto.CategoryCreate {
	return dto.CategoryCreate{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
	}
}
