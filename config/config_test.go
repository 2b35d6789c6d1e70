// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env aliases, .env files, and missing-key reporting
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, group := range [][]string{webhookVars, supabaseURL, supabaseKey, backendVars, dbPathVars, logLevelVars} {
		for _, name := range group {
			t.Setenv(name, "")
		}
	}
}

func TestLoadMissingEverything(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"PITCH_WEBHOOK_BASE_URL", "PITCH_SUPABASE_URL", "PITCH_SUPABASE_ANON_KEY"}, missing.Keys)
	assert.Contains(t, err.Error(), "PITCH_SUPABASE_ANON_KEY")
}

func TestLoadFromAliases(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_N8N_WEBHOOK_BASE_URL", "https://hooks.example.com/webhook/")
	t.Setenv("VITE_SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("VITE_SUPABASE_ANON_KEY", "anon")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/webhook", cfg.WebhookBaseURL)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, BackendSupabase, cfg.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, strings.HasPrefix(cfg.DBPath, filepath.Join(xdg.DataHome, AppName)))
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"PITCH_WEBHOOK_BASE_URL", "PITCH_SUPABASE_URL", "PITCH_SUPABASE_ANON_KEY", "PITCH_BACKEND"} {
		require.NoError(t, os.Unsetenv(name))
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PITCH_WEBHOOK_BASE_URL=https://hooks.example.com\n" +
		"PITCH_SUPABASE_URL=https://abc.supabase.co\n" +
		"PITCH_SUPABASE_ANON_KEY=anon\n" +
		"PITCH_BACKEND=sqlite\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))
	t.Cleanup(func() {
		for _, name := range []string{"PITCH_WEBHOOK_BASE_URL", "PITCH_SUPABASE_URL", "PITCH_SUPABASE_ANON_KEY", "PITCH_BACKEND"} {
			_ = os.Unsetenv(name)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "https://hooks.example.com", cfg.WebhookBaseURL)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{
		WebhookBaseURL:  "https://hooks.example.com",
		SupabaseURL:     "https://abc.supabase.co",
		SupabaseAnonKey: "anon",
		Backend:         "mongo",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
}

func TestSessionPathXDG(t *testing.T) {
	assert.Equal(t, filepath.Join(xdg.DataHome, "pitch", "session.json"), SessionPath())
}
