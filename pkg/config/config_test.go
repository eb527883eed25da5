package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "memory://")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "memory://", cfg.DB.Url)
	assert.Equal(t, "jwt", cfg.Auth.Strategy)
	assert.Equal(t, "test-secret", cfg.Auth.Jwt.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Reconcile.EnforceFunds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s")
	t.Setenv("AUTH_JWT_EXPIRY", "1h")
	t.Setenv("RECONCILE_ENFORCE_FUNDS", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Auth.Jwt.Expiry)
	assert.True(t, cfg.Reconcile.EnforceFunds)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadRequiresJwtSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.wealthdash-test"), []byte("AUTH_JWT_SECRET=from-file\nSERVER_PORT=8088\n"), 0o600))
	chdir(t, nested)
	// godotenv does not override variables that are already set.
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	t.Setenv("SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	found, err := FindEnvTest(".env.wealthdash-test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.wealthdash-test"), found)

	cfg, err := Load(".env.wealthdash-test")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.Jwt.Secret)
	assert.Equal(t, 8088, cfg.Server.Port)
}

func TestFindEnvTestMissing(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := FindEnvTest(".env.definitely-missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
