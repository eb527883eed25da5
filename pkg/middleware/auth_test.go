package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthdash/wealthdash/pkg/config"
)

const secret = "test-secret"

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JwtProtected(&config.Jwt{Secret: secret}))
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := c.Locals(UserContextKey).(*jwt.Token)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sign(t *testing.T, key string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "00000000-0000-0000-0000-000000000001",
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestJwtProtected(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusBadRequest},
		{"valid token", "Bearer " + sign(t, secret, time.Now().Add(time.Hour)), fiber.StatusOK},
		{"wrong key", "Bearer " + sign(t, "other", time.Now().Add(time.Hour)), fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, secret, time.Now().Add(-time.Hour)), fiber.StatusUnauthorized},
	}
	app := protectedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestJwtError_Malformed(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, jwtware.ErrJWTMissingOrMalformed)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
}

func TestJwtError_Invalid(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, errors.New("any other error"))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
