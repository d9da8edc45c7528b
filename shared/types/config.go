package types

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Data backends understood by dataservice.Open.
const (
	BackendPostgREST = "postgrest"
	BackendSQL       = "sql"
	BackendMemory    = "memory"
)

// Config contains the configuration for web handlers, data services and the CLI
type Config struct {
	// HTTPPort is the port the server listens on
	HTTPPort int `yaml:"http_port"`
	// BasePath is the base URL path for the application
	BasePath string `yaml:"base_path"`
	// ActionParam is the query parameter used for actions
	ActionParam string `yaml:"action_param"`
	// SafeModeDefault requires an explicit confirmation before deletes
	SafeModeDefault bool `yaml:"safe_mode"`
	// SessionSecret is the secret used for session management and CSRF tokens
	SessionSecret string `yaml:"session_secret"`
	// SecureCookies marks cookies as Secure (HTTPS only)
	SecureCookies bool `yaml:"secure_cookies"`

	// Backend selects the data service: postgrest, sql or memory
	Backend string `yaml:"backend"`
	// SupabaseURL is the project URL, e.g. https://xyz.supabase.co
	SupabaseURL string `yaml:"supabase_url"`
	// SupabaseKey is the anon or service key sent as apikey and bearer token
	SupabaseKey string `yaml:"supabase_key"`
	// DBDriver and DBDSN configure the sql backend
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	// MemoryDemo fills the memory backend with sample rows
	MemoryDemo bool `yaml:"memory_demo"`

	// RequestTimeout bounds every call to the data service
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// HTTPRetryMax is the number of retries of the PostgREST transport
	HTTPRetryMax int `yaml:"http_retry_max"`

	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level"`
}

// MinSessionSecret is the shortest SESSION_SECRET the server accepts.
const MinSessionSecret = 32

// Validate checks the settings every command needs: a usable data backend.
func (c Config) Validate() error {
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	if c.HTTPRetryMax < 0 {
		return errors.New("http retry max must not be negative")
	}

	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", BackendPostgREST:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required for the postgrest backend")
		}
	case BackendSQL:
		if c.DBDriver == "" || c.DBDSN == "" {
			return errors.New("DB_DRIVER and DB_DSN are required for the sql backend")
		}
	case BackendMemory:
	default:
		return errors.Errorf("unsupported data backend: %s", c.Backend)
	}
	return nil
}

// ValidateServer adds the checks needed to serve HTTP.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return errors.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if len(c.SessionSecret) < MinSessionSecret {
		return errors.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecret)
	}
	return nil
}
