// Package auth serves the login endpoint.
package auth

import (
	"github.com/gofiber/fiber/v2"

	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// Routes registers POST /auth/login.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/login", Login(authSvc))
}

// Login authenticates by email or username and returns a signed token.
// Unknown identities and wrong passwords get the same 401.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		u, err := authSvc.Login(c.UserContext(), input.Identity, input.Password)
		if err != nil {
			if common.ErrorToStatusCode(err) == fiber.StatusUnauthorized {
				return common.ProblemDetailsJSON(c, "Invalid identity or password", nil, "Identity or password is incorrect", fiber.StatusUnauthorized)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		token, err := authSvc.GenerateToken(c.UserContext(), u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", LoginResponse{
			Token:    token,
			UserID:   u.ID.String(),
			Username: u.Username,
		})
	}
}
