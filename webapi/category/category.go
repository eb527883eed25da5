// Package category serves the category picker endpoints.
package category

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	categorysvc "github.com/wealthdash/wealthdash/pkg/service/category"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// CreateCategoryRequest registers a category for one transaction type.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Type string `json:"type" validate:"required"`
}

// CategoryDTO is a registered category.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Routes registers GET and POST /categories.
func Routes(app *fiber.App, categorySvc *categorysvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/categories", protected, ListCategories(categorySvc, authSvc))
	app.Post("/categories", protected, CreateCategory(categorySvc, authSvc))
}

// ListCategories returns the defaults followed by the user's own categories
// for the type in the "type" query parameter, Expense when absent.
func ListCategories(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		typ, err := parseType(c.Query("type", string(category.Expense)))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category type", err)
		}
		names, err := categorySvc.List(c.UserContext(), userID, typ)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list categories", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories fetched", names)
	}
}

// CreateCategory registers a category. Names are unique per type, ignoring case.
func CreateCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateCategoryRequest](c)
		if input == nil {
			return err
		}
		typ, err := parseType(input.Type)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category type", err)
		}
		created, err := categorySvc.Create(c.UserContext(), userID, input.Name, typ)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create category", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created", CategoryDTO{
			ID:   created.ID.String(),
			Name: created.Name,
			Type: string(created.Type),
		})
	}
}

func parseType(s string) (category.Type, error) {
	for _, t := range []category.Type{category.Expense, category.Income} {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q", domain.ErrValidation, category.ErrInvalidType, s)
}
