package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recurrence/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECURRENCE_PORT", "RECURRENCE_DB", "RECURRENCE_LOG_LEVEL",
		"RECURRENCE_ALLOWED_ORIGINS", "RECURRENCE_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir()) // no .env here

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "recurrence.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECURRENCE_PORT", "9090")
	t.Setenv("RECURRENCE_LOG_LEVEL", "debug")
	t.Setenv("RECURRENCE_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RECURRENCE_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := config.Load(writeEnvFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// GIVEN: A value in both the file and the environment
	// WHEN: Loading
	// THEN: The environment wins, file-only values are used
	t.Setenv("RECURRENCE_PORT", "7000")

	cfg, err := config.Load(writeEnvFile(t, "RECURRENCE_PORT=6000\nRECURRENCE_DB=/tmp/rules.db\n"))
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "/tmp/rules.db", cfg.DBPath)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("RECURRENCE_LOG_LEVEL", "chatty")
	_, err = config.Load(writeEnvFile(t, ""))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	t.Setenv("RECURRENCE_LOG_LEVEL", "info")
	t.Setenv("RECURRENCE_SHUTDOWN_TIMEOUT", "soon")
	_, err = config.Load(writeEnvFile(t, ""))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
