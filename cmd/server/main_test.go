package main_test

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/wealthdash/wealthdash/webapi/testutils"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type MainTestSuite struct {
	testutils.E2ETestSuite
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (s *MainTestSuite) TestStartServer_RootRoute() {
	resp := s.MakeRequest(http.MethodGet, "/", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(s.ReadBody(resp)), "WealthDash")
}

func (s *MainTestSuite) TestProtectedRoute_Unauthorized() {
	resp := s.MakeRequest(http.MethodGet, "/accounts", "", "invalid.token.value")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *MainTestSuite) TestNotFoundRoute() {
	resp := s.MakeRequest(http.MethodGet, "/doesnotexist", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *MainTestSuite) TestLoginRoute_BadRequest() {
	resp := s.MakeRequest(http.MethodPost, "/auth/login", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
