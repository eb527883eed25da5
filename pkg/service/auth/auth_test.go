package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/config"
	"github.com/wealthdash/wealthdash/pkg/domain/user"
	"github.com/wealthdash/wealthdash/pkg/repository"
	accountrepo "github.com/wealthdash/wealthdash/pkg/repository/account"
	categoryrepo "github.com/wealthdash/wealthdash/pkg/repository/category"
	transactionrepo "github.com/wealthdash/wealthdash/pkg/repository/transaction"
	userrepo "github.com/wealthdash/wealthdash/pkg/repository/user"
	authsvc "github.com/wealthdash/wealthdash/pkg/service/auth"
	usersvc "github.com/wealthdash/wealthdash/pkg/service/user"
	"github.com/wealthdash/wealthdash/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var jwtCfg = &config.Jwt{Secret: "test-secret", Expiry: time.Hour}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func setup(t *testing.T) (*authsvc.Service, *user.User) {
	t.Helper()
	uow := memory.NewUoW(memory.NewStore())
	u, err := usersvc.New(uow, discard()).CreateUser(context.Background(), usersvc.SignUp{
		Username: "alice", Email: "alice@example.com", Password: "password1",
	})
	require.NoError(t, err)
	return authsvc.NewWithJWT(uow, jwtCfg, discard()), u
}

func TestLoginByEmailOrUsername(t *testing.T) {
	svc, u := setup(t)
	ctx := context.Background()

	for _, identity := range []string{"alice", "alice@example.com", "ALICE@example.com"} {
		got, err := svc.Login(ctx, identity, "password1")
		require.NoError(t, err, identity)
		assert.Equal(t, u.ID, got.ID)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, errWrongPassword := svc.Login(ctx, "alice", "nope")
	_, errUnknownUser := svc.Login(ctx, "bob", "password1")
	_, errUnknownEmail := svc.Login(ctx, "bob@example.com", "password1")
	assert.ErrorIs(t, errWrongPassword, user.ErrUserUnauthorized)
	assert.Equal(t, errWrongPassword, errUnknownUser)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, u := setup(t)
	ctx := context.Background()
	read, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)

	signed, err := svc.GenerateToken(ctx, read)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return []byte(jwtCfg.Secret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "HS256", token.Method.Alg())

	id, err := svc.GetCurrentUserId(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestGetCurrentUserIdRejectsBadClaims(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.GetCurrentUserId(nil)
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	_, err = svc.GetCurrentUserId(jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "not-a-uuid"}))
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	_, err = svc.GetCurrentUserId(jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}))
	assert.ErrorIs(t, err, user.ErrUserUnauthorized)

	id := uuid.New()
	got, err := svc.GetCurrentUserId(jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": id.String()}))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestNewFromConfig(t *testing.T) {
	uow := memory.NewUoW(memory.NewStore())
	_, err := authsvc.NewFromConfig(uow, &config.Auth{Strategy: "jwt", Jwt: jwtCfg}, discard())
	assert.NoError(t, err)
	_, err = authsvc.NewFromConfig(uow, &config.Auth{Strategy: "oauth", Jwt: jwtCfg}, discard())
	assert.ErrorIs(t, err, authsvc.ErrUnknownStrategy)
}

type mockUoW struct{ mock.Mock }

func (m *mockUoW) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	return m.Called(ctx, fn).Error(0)
}
func (m *mockUoW) GetRepository(t reflect.Type) (any, error) { return nil, nil }
func (m *mockUoW) Transactional() bool                        { return true }
func (m *mockUoW) AccountRepository() (accountrepo.Repository, error) {
	return nil, nil
}
func (m *mockUoW) TransactionRepository() (transactionrepo.Repository, error) {
	return nil, nil
}
func (m *mockUoW) CategoryRepository() (categoryrepo.Repository, error) {
	return nil, nil
}
func (m *mockUoW) UserRepository() (userrepo.Repository, error) { return nil, nil }

func TestLoginStoreError(t *testing.T) {
	uow := new(mockUoW)
	boom := errors.New("db down")
	uow.On("Do", mock.Anything, mock.Anything).Return(boom).Once()

	_, err := authsvc.NewWithJWT(uow, jwtCfg, discard()).Login(context.Background(), "alice", "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, user.ErrUserUnauthorized)
	uow.AssertExpectations(t)
}
