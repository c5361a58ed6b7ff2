package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_BASE_URL", "AUTHORIZE_URL", "CONSUMER_KEY", "REDIRECT_URI", "DATABASE_PATH",
		"REQUEST_TIMEOUT", "PAGE_SIZE", "LOG_LEVEL", "SEAL_TOKEN",
	} {
		t.Setenv(EnvPrefix+"_"+k, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+k))
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Equal(t, "https://getpocket.com", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.Error(t, cfg.Validate(), "defaults have no consumer key")
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeTempJSON(t, map[string]any{
		"consumer_key":    "json-key",
		"api_base_url":    "https://json.example",
		"request_timeout": "3s",
		"page_size":       50,
		"database_path":   "/tmp/json.db",
	})
	t.Setenv("READKEEPER_API_BASE_URL", "https://env.example")
	t.Setenv("READKEEPER_PAGE_SIZE", "25")

	fs := newFlags(t, "-c", path, "--page-size", "10", "--log-level", "debug")
	cfg, err := Load(fs)
	require.NoError(t, err)

	def := &Config{}
	def.LoadDefaults()
	want := &Config{
		APIBaseURL:     "https://env.example",
		AuthorizeURL:   def.AuthorizeURL,
		ConsumerKey:    "json-key",
		RedirectURI:    def.RedirectURI,
		DatabasePath:   "/tmp/json.db",
		RequestTimeout: 3 * time.Second,
		PageSize:       10,
		LogLevel:       "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("READKEEPER_CONSUMER_KEY", "env-key")
	t.Setenv("READKEEPER_SEAL_TOKEN", "true")
	t.Setenv("READKEEPER_REQUEST_TIMEOUT", "7s")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.ConsumerKey)
	assert.True(t, cfg.SealToken)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)

	cfg, err = Load(newFlags(t, "--seal-token=false", "--timeout", "2s", "--consumer-key", "flag-key"))
	require.NoError(t, err)
	assert.False(t, cfg.SealToken)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "flag-key", cfg.ConsumerKey)
}

func TestLoad_NilFlagSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("READKEEPER_CONSUMER_KEY", "k")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.ConsumerKey)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(newFlags(t, "-c", filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = Load(newFlags(t, "-c", bad))
	assert.Error(t, err)

	t.Setenv("READKEEPER_PAGE_SIZE", "lots")
	_, err = Load(newFlags(t, "--consumer-key", "k"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		c.ConsumerKey = "k"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"empty consumer key": func(c *Config) { c.ConsumerKey = " " },
		"relative api url":   func(c *Config) { c.APIBaseURL = "getpocket.com" },
		"bad authorize url":  func(c *Config) { c.AuthorizeURL = "::" },
		"no redirect":        func(c *Config) { c.RedirectURI = "" },
		"no database":        func(c *Config) { c.DatabasePath = "" },
		"zero timeout":       func(c *Config) { c.RequestTimeout = 0 },
		"negative page size": func(c *Config) { c.PageSize = -1 },
		"unknown log level":  func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
