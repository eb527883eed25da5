// Package transaction serves the reconciling transaction endpoints.
package transaction

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/dto"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	txsvc "github.com/wealthdash/wealthdash/pkg/service/transaction"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// DashboardLimit is the listing size used when no limit is given.
const DashboardLimit = 20

// Routes registers the transaction routes. Every write reconciles the
// balances of the accounts it touches.
//
// Routes:
//   - GET    /transactions      : List (limit, account_id, from, to, type).
//   - POST   /transactions      : Create.
//   - GET    /transactions/:id  : Get one.
//   - PATCH  /transactions/:id  : Edit.
//   - DELETE /transactions/:id  : Delete.
func Routes(app *fiber.App, txSvc *txsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/transactions", protected, ListTransactions(txSvc, authSvc))
	app.Post("/transactions", protected, CreateTransaction(txSvc, authSvc))
	app.Get("/transactions/:id", protected, GetTransaction(txSvc, authSvc))
	app.Patch("/transactions/:id", protected, EditTransaction(txSvc, authSvc))
	app.Delete("/transactions/:id", protected, DeleteTransaction(txSvc, authSvc))
}

// CreateTransaction records an expense, income or transfer and applies its
// effect to the account balances.
func CreateTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		draft, err := input.ToDraft()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction", err)
		}
		tx, err := txSvc.Create(c.UserContext(), userID, draft)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", FromDomain(tx))
	}
}

// EditTransaction replaces the old balance effect with the new one.
func EditTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[EditTransactionRequest](c)
		if input == nil {
			return err
		}
		changes, err := input.ToChanges()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction", err)
		}
		tx, err := txSvc.Edit(c.UserContext(), userID, id, changes)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to edit transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", FromDomain(tx))
	}
}

// DeleteTransaction reverses the effect and removes the row.
func DeleteTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		if err := txSvc.Delete(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

// GetTransaction returns one transaction with its account name.
func GetTransaction(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		id, ok, err := common.ParseID(c, "id")
		if !ok {
			return err
		}
		tx, err := txSvc.Get(c.UserContext(), userID, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transaction not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", FromRead(tx))
	}
}

// ListTransactions returns the newest transactions first.
func ListTransactions(txSvc *txsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := common.CurrentUserID(c, authSvc)
		if !ok {
			return err
		}
		filter, err := parseFilter(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid query", err, err.Error(), fiber.StatusBadRequest)
		}
		txs, err := txSvc.List(c.UserContext(), userID, filter)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		out := make([]TransactionDTO, 0, len(txs))
		for _, tx := range txs {
			out = append(out, FromRead(tx))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", out)
	}
}

func parseFilter(c *fiber.Ctx) (dto.TransactionFilter, error) {
	var f dto.TransactionFilter
	limit, err := common.QueryInt(c, "limit")
	if err != nil {
		return f, err
	}
	f.Limit = limit
	if f.Limit == 0 {
		f.Limit = DashboardLimit
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, err
		}
		f.AccountID = &id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := transaction.ParseDate(raw)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := transaction.ParseDate(raw)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	if raw := c.Query("type"); raw != "" {
		typ, err := transaction.ParseType(raw)
		if err != nil {
			return f, err
		}
		f.Type = typ.String()
	}
	return f, nil
}
