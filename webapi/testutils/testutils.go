// Package testutils runs the full HTTP stack over the in-memory store for
// handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/wealthdash/wealthdash/infra/initializer"
	"github.com/wealthdash/wealthdash/pkg/app"
	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/webapi"
	"github.com/wealthdash/wealthdash/webapi/common"
)

// TestPassword is the password of every user made by CreateTestUser.
const TestPassword = "password123"

// TestUser is a user created through POST /user.
type TestUser struct {
	ID       uuid.UUID
	Username string
	Email    string
	Password string
}

// TestConfig returns a configuration backed by the in-memory store with a
// rate limit high enough not to interfere.
func TestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Level: 8, Format: "text", TimeFormat: time.Kitchen},
		DB:     &config.DB{Url: "memory://"},
		Auth: &config.Auth{
			Strategy: "jwt",
			Jwt:      &config.Jwt{Secret: "test-secret-key-for-handlers", Expiry: time.Hour},
		},
		Redis:     &config.Redis{KeyPrefix: "wealthdash-test:"},
		Cache:     &config.Cache{TTL: time.Minute},
		RateLimit: &config.RateLimit{MaxRequests: 100000, Window: time.Minute},
		Reconcile: &config.Reconcile{EnforceFunds: false},
	}
}

// NewTestApp builds the Fiber app and its dependencies from cfg.
func NewTestApp(cfg *config.App) (*fiber.App, *config.Deps, error) {
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(deps)
	if err != nil {
		return nil, nil, err
	}
	return webapi.SetupApp(a), deps, nil
}

// E2ETestSuite provides a suite with the whole HTTP stack in process.
type E2ETestSuite struct {
	suite.Suite
	App  *fiber.App
	Deps *config.Deps
	Cfg  *config.App
}

// SetupSuite builds the app once per suite. Tests isolate themselves by
// creating their own users.
func (s *E2ETestSuite) SetupSuite() {
	if s.Cfg == nil {
		s.Cfg = TestConfig()
	}
	var err error
	s.App, s.Deps, err = NewTestApp(s.Cfg)
	s.Require().NoError(err)
}

// TearDownSuite releases the dependencies.
func (s *E2ETestSuite) TearDownSuite() {
	if s.Deps != nil {
		s.Require().NoError(s.Deps.Close())
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	return MakeRequestWithApp(s.App, method, path, body, token)
}

// MakeRequestWithApp sends one request through app.
func MakeRequestWithApp(fiberApp *fiber.App, method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := fiberApp.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// Decode reads a success envelope and closes the body.
func (s *E2ETestSuite) Decode(resp *http.Response) common.Response {
	defer resp.Body.Close() //nolint: errcheck
	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// DecodeProblem reads a problem details body and closes it.
func (s *E2ETestSuite) DecodeProblem(resp *http.Response) common.ProblemDetails {
	defer resp.Body.Close() //nolint: errcheck
	var out common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ReadBody returns the raw body and closes it.
func (s *E2ETestSuite) ReadBody(resp *http.Response) []byte {
	defer resp.Body.Close() //nolint: errcheck
	b, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return b
}

// DataMap returns the envelope's data as an object.
func (s *E2ETestSuite) DataMap(resp *http.Response) map[string]any {
	r := s.Decode(resp)
	data, ok := r.Data.(map[string]any)
	s.Require().True(ok, "data should be an object, got %T", r.Data)
	return data
}

// CreateTestUser creates a unique test user via the POST /user endpoint
func (s *E2ETestSuite) CreateTestUser() *TestUser {
	randomID := uuid.New().String()[:8]
	u := &TestUser{
		Username: "testuser_" + randomID,
		Email:    fmt.Sprintf("test_%s@example.com", randomID),
		Password: TestPassword,
	}
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, u.Username, u.Email, u.Password)
	resp := s.MakeRequest(fiber.MethodPost, "/user", body, "")
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode, "user creation")

	data := s.DataMap(resp)
	id, err := uuid.Parse(data["id"].(string))
	s.Require().NoError(err)
	u.ID = id
	return u
}

// LoginUser makes an actual HTTP request to login and returns the JWT token
func (s *E2ETestSuite) LoginUser(u *TestUser) string {
	body := fmt.Sprintf(`{"identity":%q,"password":%q}`, u.Email, u.Password)
	resp := s.MakeRequest(fiber.MethodPost, "/auth/login", body, "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode, "login")
	token, _ := s.DataMap(resp)["token"].(string)
	s.Require().NotEmpty(token, "No token found in response")
	return token
}

// CreateAccount opens an account through the API and returns its id.
func (s *E2ETestSuite) CreateAccount(token, name, typ, amount, creditLimit string) string {
	body := fmt.Sprintf(`{"name":%q,"type":%q,"amount":%q,"credit_limit":%q}`, name, typ, amount, creditLimit)
	resp := s.MakeRequest(fiber.MethodPost, "/accounts", body, token)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode, "account creation")
	return s.DataMap(resp)["id"].(string)
}

// Balance fetches the stored balance of an account as a string.
func (s *E2ETestSuite) Balance(token, accountID string) string {
	resp := s.MakeRequest(fiber.MethodGet, "/accounts/"+accountID, "", token)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	return s.DataMap(resp)["balance"].(string)
}
