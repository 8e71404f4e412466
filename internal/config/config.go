// Package config loads the console's settings from ~/.agentui/config.yaml
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL  = "http://localhost:8000"
	DefaultPerPage = 9
	DefaultTimeout = 30 * time.Second

	EnvAPIURL   = "AGENTUI_API_URL"
	EnvStateDir = "AGENTUI_STATE_DIR"
	EnvConfig   = "AGENTUI_CONFIG"
)

// Config is the complete console configuration.
type Config struct {
	APIURL   string        `yaml:"api_url"`
	StateDir string        `yaml:"state_dir"`
	PerPage  int           `yaml:"per_page"`
	Log      LoggingConfig `yaml:"log"`

	HTTPTimeout    time.Duration `yaml:"-"`
	HTTPTimeoutRaw string        `yaml:"http_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File overrides the TUI log file, default <state_dir>/agentui.log.
	File string `yaml:"file"`
}

// DefaultStateDir returns ~/.agentui.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".agentui"), nil
}

// DefaultPath returns the config file location: $AGENTUI_CONFIG if set,
// else ~/.agentui/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		APIURL:      DefaultAPIURL,
		PerPage:     DefaultPerPage,
		HTTPTimeout: DefaultTimeout,
		Log:         LoggingConfig{Level: "info"},
	}
	if dir, err := DefaultStateDir(); err == nil {
		cfg.StateDir = dir
	}
	return cfg
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error. The result is not validated; callers
// apply their own overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.HTTPTimeoutRaw != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(cfg.HTTPTimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing http_timeout %q: %w", cfg.HTTPTimeoutRaw, err)
		}
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		cfg.StateDir = v
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute URL", c.APIURL)
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("per_page must be positive, got %d", c.PerPage)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	return nil
}

// LogFile returns the TUI log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.StateDir, "agentui.log")
}
