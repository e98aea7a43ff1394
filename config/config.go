// Package config loads the settings that tell the test harness which service to test and
// where its fixture data lives.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://reqres.in/"
	DefaultAPIKeyHeader = "x-api-key"
	DefaultTimeout      = time.Second * 10
	DefaultUserAgent    = "reqres-contract-tests"
)

// Environment variables that override the config file.
const (
	EnvBaseURL     = "REQRES_BASE_URL"
	EnvAPIKey      = "REQRES_API_KEY"
	EnvFixturesDir = "REQRES_FIXTURES_DIR"
	EnvTimeout     = "REQRES_TIMEOUT"
)

// Config holds the harness settings.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	APIKeyHeader string        `yaml:"api_key_header"`
	FixturesDir  string        `yaml:"fixtures_dir"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		APIKeyHeader: DefaultAPIKeyHeader,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if path is not empty),
// then the environment, then the overrides in order. The result is validated.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv copies variables from a .env file into the process environment, without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvFixturesDir); ok && v != "" {
		c.FixturesDir = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that the settings can be used to run the suite.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q must be an absolute http or https URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.APIKey != "" && c.APIKeyHeader == "" {
		return errors.New("api_key is set but api_key_header is empty")
	}
	return nil
}
