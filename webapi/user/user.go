// Package user serves sign-up and the profile settings.
package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	usersvc "github.com/wealthdash/wealthdash/pkg/service/user"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// Routes registers sign-up and the current user's profile routes.
func Routes(app *fiber.App, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/user", CreateUser(userSvc))
	app.Get("/user/me", protected, GetProfile(userSvc, authSvc))
	app.Put("/user/me", protected, UpdateProfile(userSvc, authSvc))
}

// CreateUser signs a user up.
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[NewUser](c)
		if input == nil {
			return err // error response already written
		}
		u, err := userSvc.CreateUser(c.UserContext(), usersvc.SignUp{
			Username: input.Username,
			Email:    input.Email,
			Password: input.Password,
			FullName: input.FullName,
			Phone:    input.Phone,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", ProfileDTO{
			ID:        u.ID.String(),
			Username:  u.Username,
			Email:     u.Email,
			FullName:  u.FullName,
			Phone:     u.Phone,
			CreatedAt: u.CreatedAt,
		})
	}
}

// GetProfile returns the authenticated user's profile.
func GetProfile(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		u, err := userSvc.GetUser(c.UserContext(), userID)
		if err != nil {
			// Generic error so a stale token reveals nothing
			return common.ProblemDetailsJSON(c, "Invalid credentials", nil, fiber.StatusUnauthorized)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", ToProfileDTO(u))
	}
}

// UpdateProfile changes the name, phone or password of the authenticated user.
func UpdateProfile(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[UpdateProfileInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.UpdateProfile(c.UserContext(), userID, usersvc.ProfileUpdate{
			FullName: input.FullName,
			Phone:    input.Phone,
			Password: input.Password,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update profile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User updated successfully", ToProfileDTO(u))
	}
}
