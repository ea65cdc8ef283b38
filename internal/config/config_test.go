package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanwiki/internal/auth"
)

const secret = "0123456789abcdef0123"

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "kanwiki.db", c.DSN)
	assert.Equal(t, "", c.SecretKey)
	assert.Equal(t, auth.SchemeSaltedSHA256, c.PasswordScheme)
	assert.False(t, c.CookieSecure)
	assert.False(t, c.CookieHTTPOnly)
	assert.Equal(t, 15*time.Second, c.ReadTimeout)
	assert.Equal(t, 60*time.Second, c.IdleTimeout)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "SECRET_KEY is required")

	t.Setenv("SECRET_KEY", "short")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "at least")
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("SECRET_KEY", secret)
	t.Setenv("ADDR", ":9000")
	t.Setenv("DSN", "env.db")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")
	t.Setenv("COOKIE_HTTPONLY", "true")
	t.Setenv("READ_TIMEOUT", "3s")

	cfg, err := Load("", []string{"-dsn", "flag.db"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "flag.db", cfg.DSN)
	assert.Equal(t, secret, cfg.SecretKey)
	assert.Equal(t, auth.SchemeBcrypt, cfg.PasswordScheme)
	assert.True(t, cfg.CookieHTTPOnly)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SECRET_KEY", secret)

	t.Setenv("PASSWORD_SCHEME", "rot13")
	_, err := Load("", nil)
	assert.Error(t, err)

	t.Setenv("PASSWORD_SCHEME", "")
	t.Setenv("WRITE_TIMEOUT", "soon")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "WRITE_TIMEOUT")

	t.Setenv("WRITE_TIMEOUT", "")
	_, err = Load("", []string{"-nope"})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_KEY="+secret+"\nLOG_FORMAT=json\n"), 0o600))

	// godotenv does not override variables that are already set, so make
	// sure ours start out empty and are restored afterwards.
	t.Setenv("SECRET_KEY", "")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("SECRET_KEY")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, secret, cfg.SecretKey)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("SECRET_KEY", secret)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	assert.NoError(t, err)
}

func TestRead_SkipsValidationAndKeepsArgs(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	cfg, err := Read("", []string{"-dsn", "admin.db", "admin", "pages"})
	require.NoError(t, err)
	assert.Equal(t, "admin.db", cfg.DSN)
	assert.Equal(t, []string{"admin", "pages"}, cfg.Args)
	assert.Error(t, cfg.Validate())
}
