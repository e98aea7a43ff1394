package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range []string{EnvBaseURL, EnvAPIKey, EnvFixturesDir, EnvTimeout} {
		t.Setenv(name, "")
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "reqres.yaml", `
base_url: http://localhost:9000/
api_key: abc
fixtures_dir: ./fixtures
timeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/", cfg.BaseURL)
	assert.Equal(t, "abc", cfg.APIKey)
	assert.Equal(t, DefaultAPIKeyHeader, cfg.APIKeyHeader)
	assert.Equal(t, "./fixtures", cfg.FixturesDir)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "reqres.yaml", "base_url: http://localhost:9000/\ntimeout: 3s\n")
	t.Setenv(EnvBaseURL, "http://localhost:9100/")
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvTimeout, "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9100/", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
}

func TestEmptyEnvironmentVariablesDoNotOverrideFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "reqres.yaml", "api_key: from-file\nfixtures_dir: ./from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "./from-file", cfg.FixturesDir)
}

func TestOverridesApplyAfterEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "not a url")

	cfg, err := Load("", func(c *Config) { c.BaseURL = "http://localhost:9200/" })
	require.NoError(t, err, "an override can replace an invalid setting before validation")
	assert.Equal(t, "http://localhost:9200/", cfg.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "base_url: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "relative.yaml", "base_url: /api/\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "timeout.yaml", "timeout: -1s\n"))
	assert.Error(t, err)

	t.Setenv(EnvTimeout, "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAPIKey)
	path := writeFile(t, ".env", EnvAPIKey+"=dotenv-key\n")

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv(EnvAPIKey) })
	assert.Equal(t, "dotenv-key", os.Getenv(EnvAPIKey))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")), "missing file is not an error")
}
