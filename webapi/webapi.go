// Package webapi provides the HTTP API of WealthDash.
// It is organized into sub-packages per area:
// - account: Accounts, net worth and balance verification
// - transaction: Transaction entry, editing and listing
// - category: Per-user categories
// - analytics: Summaries, month comparison and CSV export
// - auth: Login
// - user: Sign-up and profile settings
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wealthdash/wealthdash/pkg/app"
	accountweb "github.com/wealthdash/wealthdash/webapi/account"
	analyticsweb "github.com/wealthdash/wealthdash/webapi/analytics"
	authweb "github.com/wealthdash/wealthdash/webapi/auth"
	categoryweb "github.com/wealthdash/wealthdash/webapi/category"
	"github.com/wealthdash/wealthdash/webapi/common"
	transactionweb "github.com/wealthdash/wealthdash/webapi/transaction"
	userweb "github.com/wealthdash/wealthdash/webapi/user"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		AppName: "WealthDash",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Keyed by the first X-Forwarded-For hop when behind a proxy
	fiberApp.Use(limiter.New(limiter.Config{
		Max:          cfg.RateLimit.MaxRequests,
		Expiration:   cfg.RateLimit.Window,
		KeyGenerator: ClientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	if cfg.Env != "test" {
		fiberApp.Use(logger.New())
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("WealthDash API is running!")
	})

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		var routeList []fiber.Map
		for _, route := range fiberApp.GetRoutes(true) {
			if route.Path != "" {
				routeList = append(routeList, fiber.Map{
					"method": route.Method,
					"path":   route.Path,
				})
			}
		}
		return c.JSON(routeList)
	})

	authweb.Routes(fiberApp, a.AuthService)
	userweb.Routes(fiberApp, a.UserService, a.AuthService, cfg)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	transactionweb.Routes(fiberApp, a.TransactionService, a.AuthService, cfg)
	categoryweb.Routes(fiberApp, a.CategoryService, a.AuthService, cfg)
	analyticsweb.Routes(fiberApp, a.AnalyticsService, a.AuthService, cfg)
	return fiberApp
}

// ClientKey identifies the caller for rate limiting: the first
// X-Forwarded-For address, then X-Real-IP, then the peer address.
func ClientKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
