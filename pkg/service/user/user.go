// Package user provides sign-up and profile management.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/user"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/repository"
	userrepo "github.com/wealthdash/wealthdash/pkg/repository/user"
	"github.com/wealthdash/wealthdash/pkg/utils"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// SignUp is the input of CreateUser.
type SignUp struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// ProfileUpdate carries the optional profile changes. A non-nil Password
// replaces the stored hash.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Password *string
}

// CreateUser registers a user. Taken usernames and emails wrap domain.ErrAlreadyExists.
func (s *Service) CreateUser(ctx context.Context, in SignUp) (u *user.User, err error) {
	logger := s.logger.With("username", in.Username)
	logger.Info("CreateUser started")

	u, err = user.NewUser(in.Username, in.Email, in.Password, in.FullName, in.Phone)
	if err != nil {
		logger.Warn("CreateUser failed: invalid input", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := userRepository(uow)
		if err != nil {
			return err
		}
		if taken, err := repo.ExistsByUsername(ctx, u.Username); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: username", domain.ErrAlreadyExists)
		}
		if taken, err := repo.ExistsByEmail(ctx, u.Email); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("%w: email", domain.ErrAlreadyExists)
		}
		return repo.Create(ctx, &dto.UserCreate{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			FullName: u.FullName,
			Phone:    u.Phone,
		})
	})
	if err != nil {
		logger.Warn("CreateUser failed", "error", err)
		return nil, err
	}
	logger.Info("CreateUser successful", "user_id", u.ID)
	return u, nil
}

// GetUser returns the user's profile.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (u *dto.UserRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := userRepository(uow)
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return user.ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies profile changes and returns the stored profile.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) (u *dto.UserRead, err error) {
	logger := s.logger.With("user_id", id)
	logger.Info("UpdateProfile started")

	update := &dto.UserUpdate{}
	if p.FullName != nil {
		v := strings.TrimSpace(*p.FullName)
		update.FullName = &v
	}
	if p.Phone != nil {
		v := strings.TrimSpace(*p.Phone)
		update.Phone = &v
	}
	if p.Password != nil {
		if err := user.ValidatePassword(*p.Password); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		hash, err := utils.HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		update.Password = &hash
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := userRepository(uow)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, id, update); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return user.ErrUserNotFound
			}
			return err
		}
		u, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		logger.Warn("UpdateProfile failed", "error", err)
		return nil, err
	}
	logger.Info("UpdateProfile successful", "password_changed", p.Password != nil)
	return u, nil
}

func userRepository(uow repository.UnitOfWork) (userrepo.Repository, error) {
	repoAny, err := uow.GetRepository(repository.UserRepositoryType)
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(userrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
