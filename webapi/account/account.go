// Package account serves the account, net worth and balance repair endpoints.
package account

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	accountsvc "github.com/wealthdash/wealthdash/pkg/service/account"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// Routes registers HTTP routes for account-related operations.
// All routes require a valid bearer token.
//
// Routes:
//   - POST   /accounts          : Open an account.
//   - GET    /accounts          : List accounts with net worth.
//   - GET    /accounts/verify   : Compare stored balances with the transaction history.
//   - POST   /accounts/resync   : Write the balances the history implies.
//   - GET    /accounts/:id      : Get one account.
//   - PATCH  /accounts/:id      : Rename or change the credit limit.
//   - DELETE /accounts/:id      : Delete an account no transaction references.
//   - GET    /networth          : Net worth summary.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/accounts", protected, CreateAccount(accountSvc, authSvc))
	app.Get("/accounts", protected, ListAccounts(accountSvc, authSvc))
	app.Get("/accounts/verify", protected, Verify(accountSvc, authSvc))
	app.Post("/accounts/resync", protected, Resync(accountSvc, authSvc))
	app.Get("/accounts/:id", protected, GetAccount(accountSvc, authSvc))
	app.Patch("/accounts/:id", protected, UpdateAccount(accountSvc, authSvc))
	app.Delete("/accounts/:id", protected, DeleteAccount(accountSvc, authSvc))
	app.Get("/networth", protected, NetWorth(accountSvc, authSvc))
}

// CreateAccount returns a Fiber handler opening an account for the current user.
// A credit card is opened from its available credit and limit and stores the
// difference as a negative balance.
func CreateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		typ, err := account.ParseType(input.Type)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account type", fmt.Errorf("%w: %w", domain.ErrValidation, err))
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), userID, accountsvc.CreateParams{
			Name:        input.Name,
			Type:        typ,
			Amount:      input.Amount,
			CreditLimit: input.CreditLimit,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// ListAccounts returns every account of the current user and their net worth.
func ListAccounts(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		accounts, err := accountSvc.ListAccounts(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		resp := AccountListDTO{Accounts: make([]AccountDTO, 0, len(accounts))}
		for _, a := range accounts {
			resp.Accounts = append(resp.Accounts, ToAccountDTO(a))
		}
		resp.NetWorth = account.NetWorth(accounts)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", resp)
	}
}

// GetAccount returns one account of the current user.
func GetAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		a, err := accountSvc.GetAccount(c.UserContext(), userID, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// UpdateAccount renames an account or changes a card's credit limit.
// The stored balance is never touched.
func UpdateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.UpdateAccount(c.UserContext(), userID, id, accountsvc.UpdateParams{
			Name:        input.Name,
			CreditLimit: input.CreditLimit,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountDTO(a))
	}
}

// DeleteAccount removes an account. It is refused while transactions reference it.
func DeleteAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		if err := accountSvc.DeleteAccount(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", nil)
	}
}

// NetWorth returns the cached net worth summary of the current user.
func NetWorth(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		summary, err := accountSvc.NetWorth(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute net worth", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Net worth computed", summary)
	}
}

// Verify reports, per account, the stored balance against the balance the
// transaction history implies.
func Verify(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		report, err := accountSvc.Verify(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to verify balances", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balances verified", ToDriftDTOs(report))
	}
}

// Resync writes the expected balance to every drifted account.
func Resync(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		fixed, err := accountSvc.Resync(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to resync balances", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balances resynced", ToDriftDTOs(fixed))
	}
}
