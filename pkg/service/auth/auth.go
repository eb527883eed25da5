// Package auth authenticates users and issues the bearer tokens the HTTP API expects.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/user"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/repository"
	"github.com/wealthdash/wealthdash/pkg/utils"
)

// ErrUnknownStrategy is returned for an AUTH_STRATEGY this build does not provide.
var ErrUnknownStrategy = errors.New("unknown auth strategy")

type contextKey string

const userContextKey contextKey = "user"

// dummyHash is compared against when the identity is unknown so both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

type Strategy interface {
	Login(ctx context.Context, identity, password string) (*dto.UserRead, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, u *dto.UserRead) (string, error)
}

type Service struct {
	strategy Strategy
	logger   *slog.Logger
}

func New(strategy Strategy, logger *slog.Logger) *Service {
	return &Service{strategy: strategy, logger: logger}
}

func NewWithJWT(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return New(NewJWTStrategy(uow, cfg, logger), logger)
}

// NewFromConfig builds the service for the configured strategy.
func NewFromConfig(uow repository.UnitOfWork, cfg *config.Auth, logger *slog.Logger) (*Service, error) {
	switch strings.ToLower(cfg.Strategy) {
	case "", "jwt":
		return NewWithJWT(uow, cfg.Jwt, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
}

// GetCurrentUserId extracts the user id from a verified token.
func (s *Service) GetCurrentUserId(token *jwt.Token) (userID uuid.UUID, err error) {
	log := s.logger.With("context", "GetCurrentUserId")
	userID, err = s.strategy.GetCurrentUserID(context.WithValue(context.Background(), userContextKey, token))
	if err != nil {
		log.Warn("GetCurrentUserId failed", "error", err)
		return
	}
	log.Debug("GetCurrentUserId successful", "user_id", userID)
	return
}

// Login checks credentials. identity is an email when it contains '@',
// otherwise a username.
func (s *Service) Login(ctx context.Context, identity, password string) (u *dto.UserRead, err error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called")
	u, err = s.strategy.Login(ctx, identity, password)
	if err != nil {
		log.Warn("Login failed", "error", err)
		return
	}
	log.Info("Login successful", "user_id", u.ID)
	return
}

func (s *Service) GenerateToken(ctx context.Context, u *dto.UserRead) (string, error) {
	log := s.logger.With("user_id", u.ID)
	token, err := s.strategy.GenerateToken(ctx, u)
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Debug("GenerateToken successful")
	return token, nil
}

// JWTStrategy implements Strategy with HS256 signed tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
	now    func() time.Time
}

func NewJWTStrategy(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger, now: time.Now}
}

func (s *JWTStrategy) GenerateToken(ctx context.Context, u *dto.UserRead) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"email":    u.Email,
		"exp":      s.now().Add(s.cfg.Expiry).Unix(),
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *JWTStrategy) Login(ctx context.Context, identity, password string) (u *dto.UserRead, err error) {
	identity = strings.TrimSpace(identity)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository: %w", err)
		}
		if strings.Contains(identity, "@") {
			u, err = repo.GetByEmail(ctx, utils.NormalizeEmail(identity))
		} else {
			u, err = repo.GetByUsername(ctx, identity)
		}
		if errors.Is(err, domain.ErrNotFound) {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return user.ErrUserUnauthorized
		}
		if err != nil {
			return err
		}
		if !utils.CheckPasswordHash(password, u.HashedPassword) {
			return user.ErrUserUnauthorized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *JWTStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	token, ok := ctx.Value(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", user.ErrUserUnauthorized, err)
	}
	return userID, nil
}
