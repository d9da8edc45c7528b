package gestor

import (
	"os"
	"time"

	"github.com/dracory/env"
	"github.com/dracory/gestor/shared/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads .env and the environment, then overlays the YAML file at
// path when one is given. Command-line flags are applied by the caller.
func LoadConfig(path string) (types.Config, error) {
	var cfg types.Config

	// Optionally load from .env files (missing files are ignored inside the lib)
	env.Load(".env")

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_URL", "/")
	cfg.ActionParam = env.GetStringOrDefault("ACTION_PARAM", "action")
	cfg.SessionSecret = env.GetStringOrDefault("SESSION_SECRET", "")
	cfg.SafeModeDefault = env.GetBoolOrDefault("SAFE_MODE_DEFAULT", true)
	cfg.SecureCookies = env.GetBoolOrDefault("SECURE_COOKIES", false)

	cfg.Backend = env.GetStringOrDefault("DATA_BACKEND", types.BackendPostgREST)
	cfg.SupabaseURL = env.GetStringOrDefault("SUPABASE_URL", "")
	cfg.SupabaseKey = env.GetStringOrDefault("SUPABASE_KEY", "")
	cfg.DBDriver = env.GetStringOrDefault("DB_DRIVER", "")
	cfg.DBDSN = env.GetStringOrDefault("DB_DSN", "")
	cfg.MemoryDemo = env.GetBoolOrDefault("MEMORY_DEMO", false)

	cfg.RequestTimeout = time.Duration(env.GetIntOrDefault("REQUEST_TIMEOUT", 10)) * time.Second
	cfg.HTTPRetryMax = env.GetIntOrDefault("HTTP_RETRY_MAX", 0)
	cfg.LogLevel = env.GetStringOrDefault("LOG_LEVEL", "info")

	if path != "" {
		if err := LoadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// LoadYAML overlays the keys present in the YAML file at path onto cfg.
// Durations are written as Go duration strings, e.g. "15s".
func LoadYAML(path string, cfg *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}
