// Package config loads feedfort settings from ~/.feedfort/config.yaml, a
// working-directory .env file and FEEDFORT_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the backend root; requests go to DefaultAPIURL + "/api"
	DefaultAPIURL = "http://localhost:5000"

	// DefaultTimeout bounds each API request
	DefaultTimeout = 30 * time.Second

	// APIBasePath is prefixed to every endpoint
	APIBasePath = "/api"
)

// Environment variables
const (
	EnvHome        = "FEEDFORT_HOME"
	EnvAPIURL      = "FEEDFORT_API_URL"
	EnvTimeout     = "FEEDFORT_TIMEOUT"
	EnvLogLevel    = "FEEDFORT_LOG_LEVEL"
	EnvLogFormat   = "FEEDFORT_LOG_FORMAT"
	EnvLogFile     = "FEEDFORT_LOG_FILE"
	EnvSessionFile = "FEEDFORT_SESSION_FILE"
	EnvSessionKey  = "FEEDFORT_SESSION_KEY"
)

// Config is the full client configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

// APIConfig points the client at the backend
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// SessionConfig controls where the session is persisted. Key is the
// passphrase for token encryption; when empty a per-host default is used.
type SessionConfig struct {
	File string `yaml:"file"`
	Key  string `yaml:"key,omitempty"`
}

// Dir returns the feedfort home directory (~/.feedfort unless FEEDFORT_HOME
// is set)
func Dir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".feedfort"
	}
	return filepath.Join(home, ".feedfort")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns a configuration with defaults rooted at dir
func Default() *Config {
	dir := Dir()
	return &Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dir, "feedfort.log"),
		},
		Session: SessionConfig{
			File: filepath.Join(dir, "session.json"),
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from FEEDFORT_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.API.URL = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.Log.File = v
	}
	if v, ok := lookup(EnvSessionFile); ok && v != "" {
		c.Session.File = v
	}
	if v, ok := lookup(EnvSessionKey); ok && v != "" {
		c.Session.Key = v
	}
	return nil
}

// Validate checks the API URL and timeout
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url must be an http(s) URL, got %q", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Session.File == "" {
		return fmt.Errorf("session.file must be set")
	}
	return nil
}

// BaseURL is the API URL with the /api prefix and no trailing slash
func (c *Config) BaseURL() string {
	base := strings.TrimRight(c.API.URL, "/")
	if strings.HasSuffix(base, APIBasePath) {
		return base
	}
	return base + APIBasePath
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
