package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/formlane/formlane/internal/errors"
)

// Config holds client settings. Values come from an optional YAML file
// overridden by FORMLANE_* environment variables.
type Config struct {
	// APIOrigin is the base origin of the survey API, without the /api prefix.
	APIOrigin string `yaml:"api_origin" env:"FORMLANE_API_ORIGIN" env-default:"http://localhost:8080"`

	// Locale selects the message table: "en" or "ru".
	Locale string `yaml:"locale" env:"FORMLANE_LOCALE" env-default:"en"`

	// StateDir stores interview ids and the session cookie jar.
	StateDir string `yaml:"state_dir" env:"FORMLANE_STATE_DIR"`

	// RequestTimeout bounds a single API call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"FORMLANE_REQUEST_TIMEOUT" env-default:"30s"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"FORMLANE_LOG_LEVEL" env-default:"info"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" env:"FORMLANE_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from path (when it exists) and the environment.
// An empty path means environment-only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to parse config file: "+path, err)
			}
			return withDefaults(&cfg)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to read environment", err)
	}
	return withDefaults(&cfg)
}

func withDefaults(cfg *Config) (*Config, error) {
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot determine home directory for state_dir", err)
		}
		cfg.StateDir = filepath.Join(home, ".formlane")
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".formlane", "config.yaml")
}
