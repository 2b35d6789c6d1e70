// ABOUTME: Runtime configuration for the webhook service and hosted backend
// ABOUTME: Loads .env and environment variables, validates required endpoints
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG data directory.
	AppName = "pitch"

	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

// Config holds the endpoints and credentials supplied at process start.
type Config struct {
	WebhookBaseURL  string
	SupabaseURL     string
	SupabaseAnonKey string

	// Backend selects where proposal and profile rows live.
	Backend string
	DBPath  string

	LogLevel string
}

// MissingError reports required configuration that was not supplied.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("configuration error: missing %s", strings.Join(e.Keys, ", "))
}

// each setting lists its primary variable first, then accepted aliases
var (
	webhookVars  = []string{"PITCH_WEBHOOK_BASE_URL", "VITE_N8N_WEBHOOK_BASE_URL"}
	supabaseURL  = []string{"PITCH_SUPABASE_URL", "VITE_SUPABASE_URL"}
	supabaseKey  = []string{"PITCH_SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"}
	backendVars  = []string{"PITCH_BACKEND"}
	dbPathVars   = []string{"PITCH_DB_PATH"}
	logLevelVars = []string{"PITCH_LOG_LEVEL"}
)

// Load reads optional .env files, then the process environment, and
// validates the result. Process variables win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = defaultEnvFiles()
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a config from the environment without validating it.
func FromEnv() *Config {
	cfg := &Config{
		WebhookBaseURL:  strings.TrimRight(lookup(webhookVars), "/"),
		SupabaseURL:     strings.TrimRight(lookup(supabaseURL), "/"),
		SupabaseAnonKey: lookup(supabaseKey),
		Backend:         strings.ToLower(lookup(backendVars)),
		DBPath:          lookup(dbPathVars),
		LogLevel:        lookup(logLevelVars),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSupabase
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// Validate returns a *MissingError naming every absent required key.
func (c *Config) Validate() error {
	var missing []string
	if c.WebhookBaseURL == "" {
		missing = append(missing, webhookVars[0])
	}
	if c.SupabaseURL == "" {
		missing = append(missing, supabaseURL[0])
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, supabaseKey[0])
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	if c.Backend != BackendSupabase && c.Backend != BackendSQLite {
		return fmt.Errorf("configuration error: invalid PITCH_BACKEND %q (valid: supabase, sqlite)", c.Backend)
	}
	return nil
}

// DataDir returns the XDG data directory for pitch.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultDBPath is the local SQLite backend location.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "pitch.db")
}

// SessionPath is where the signed-in session token is persisted.
func SessionPath() string {
	return filepath.Join(DataDir(), "session.json")
}

func defaultEnvFiles() []string {
	return []string{".env", filepath.Join(DataDir(), ".env")}
}

func lookup(names []string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}
