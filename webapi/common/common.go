// Package common holds the response envelope, problem details and request
// helpers shared by every HTTP handler.
package common

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/domain"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	"github.com/wealthdash/wealthdash/pkg/domain/category"
	"github.com/wealthdash/wealthdash/pkg/domain/transaction"
	"github.com/wealthdash/wealthdash/pkg/domain/user"
	"github.com/wealthdash/wealthdash/pkg/middleware"
	"github.com/wealthdash/wealthdash/pkg/service/analytics"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	txsvc "github.com/wealthdash/wealthdash/pkg/service/transaction"
)

const problemJSON = "application/problem+json"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// Client-facing hints for the non-fatal and the recoverable failures.
const (
	RefreshDetail = "The record no longer exists. Refresh and retry."
	ResyncDetail  = "Account balances may be out of sync. Run POST /accounts/resync to repair them."
)

var validate = validator.New()

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes an RFC 9457 response. Optional args are a detail
// string and an explicit status code; without a status it is derived from err.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{Type: "about:blank", Title: title, Instance: c.OriginalURL()}
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			pd.Detail = v
		case int:
			pd.Status = v
		}
	}
	if pd.Status == 0 {
		pd.Status = fiber.StatusBadRequest
		if err != nil {
			pd.Status = ErrorToStatusCode(err)
		}
	}
	if err != nil && pd.Detail == "" {
		switch pd.Status {
		case fiber.StatusNotFound:
			pd.Detail = RefreshDetail
		case fiber.StatusInternalServerError:
			if errors.Is(err, txsvc.ErrResyncRequired) {
				pd.Detail = ResyncDetail
			} else {
				pd.Detail = "Internal server error"
			}
		default:
			pd.Detail = err.Error()
		}
	}
	if pd.Status == fiber.StatusBadRequest && err != nil {
		if causes := Causes(err); len(causes) > 1 {
			pd.Errors = causes
		}
	}
	return c.Status(pd.Status).JSON(pd, problemJSON)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, txsvc.ErrResyncRequired):
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, transaction.ErrSameAccount),
		errors.Is(err, analytics.ErrInvalidView),
		errors.Is(err, analytics.ErrInvalidMonth):
		return fiber.StatusBadRequest
	case errors.Is(err, user.ErrUserUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, category.ErrDuplicate),
		errors.Is(err, account.ErrAccountInUse):
		return fiber.StatusConflict
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// Causes flattens joined errors into their messages. Validation failures
// report every problem at once this way.
func Causes(err error) []string {
	var out []string
	var walk func(error)
	walk = func(e error) {
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				walk(inner)
			}
			return
		}
		if e != domain.ErrValidation {
			out = append(out, e.Error())
		}
	}
	walk(err)
	return out
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			c.Status(fiber.StatusBadRequest)
			return nil, c.JSON(ProblemDetails{
				Type:     "about:blank",
				Title:    "Validation failed",
				Status:   fiber.StatusBadRequest,
				Detail:   err.Error(),
				Instance: c.OriginalURL(),
				Errors:   fields,
			}, problemJSON)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

// CurrentUserID resolves the authenticated user. On failure the 401 response
// is already written and the returned error is the write result.
func CurrentUserID(c *fiber.Ctx, authSvc *authsvc.Service) (uuid.UUID, bool, error) {
	token, ok := c.Locals(middleware.UserContextKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
	}
	userID, err := authSvc.GetCurrentUserId(token)
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Invalid user ID", err, err.Error(), fiber.StatusUnauthorized)
	}
	return userID, true, nil
}

// ParseID reads a UUID path parameter, writing a 400 on failure.
func ParseID(c *fiber.Ctx, param string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Invalid "+param, err, param+" must be a valid UUID", fiber.StatusBadRequest)
	}
	return id, true, nil
}

// QueryInt reads an optional non-negative integer query parameter.
func QueryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
