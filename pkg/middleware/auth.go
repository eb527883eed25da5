// Package middleware holds fiber middleware shared by the HTTP routes.
package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/wealthdash/wealthdash/pkg/config"
)

// UserContextKey is the fiber Locals key holding the verified *jwt.Token.
const UserContextKey = "user"

// JwtProtected rejects requests without a valid HS256 bearer token.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:   UserContextKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	status, title := fiber.StatusUnauthorized, "Invalid or expired JWT"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		status, title = fiber.StatusBadRequest, "Missing or malformed JWT"
	}
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"detail":   err.Error(),
		"instance": c.OriginalURL(),
	}, "application/problem+json")
}
