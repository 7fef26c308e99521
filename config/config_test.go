package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"JWT_SECRET", "APP_PORT", "DB_DRIVER", "TOKEN_HEADER", "TOKEN_TTL_MINUTES", "ADMIN_USERNAMES", "REDIS_ENABLED"} {
		t.Setenv(k, "")
	}
}

func TestRead_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "env-secret")

	c, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "env-secret", c.JWTSecret)
	assert.Equal(t, "accessToken", c.TokenHeader)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, 10000, c.PostTextMaxLength)
	assert.Equal(t, 2000, c.CommentTextMaxLength)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Zero(t, c.TokenTTL())
	assert.False(t, c.RedisEnabled)
}

func TestRead_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"app": {"AppPort": "9000", "JWTSecret": "file-secret", "TokenTTLMinutes": 30, "AdminUsernames": ["Root"]},
		"database": {"Driver": "sqlite", "SQLitePath": "board.db"},
		"redis": {"Enabled": true, "RedisPort": 6380}
	}`)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("ADMIN_USERNAMES", "root, ops")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", c.AppPort)
	assert.Equal(t, "file-secret", c.JWTSecret)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "board.db", c.SQLitePath)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, 30*60, int(c.TokenTTL().Seconds()))
	assert.True(t, c.IsAdmin("ROOT"))
	assert.True(t, c.IsAdmin("ops"))
	assert.False(t, c.IsAdmin("bob"))
	assert.False(t, c.IsAdmin(""))
}

func TestRead_MissingSecret(t *testing.T) {
	clearEnv(t)
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestRead_InvalidJSON(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")
	_, err := Read(writeConfig(t, "{not json"))
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "board.db?_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("board.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("file:x?mode=memory"))
	assert.Equal(t, "x?_foreign_keys=on", SQLiteDSN("x?_foreign_keys=on"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}
