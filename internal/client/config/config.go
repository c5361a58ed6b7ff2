package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/logging"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "READKEEPER"

// Config holds runtime settings for the readkeeper CLI.
type Config struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL"`
	AuthorizeURL   string        `envconfig:"AUTHORIZE_URL"`
	ConsumerKey    string        `envconfig:"CONSUMER_KEY"`
	RedirectURI    string        `envconfig:"REDIRECT_URI"`
	DatabasePath   string        `envconfig:"DATABASE_PATH"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	// PageSize > 0 fetches full snapshots in pages of this size.
	PageSize  int    `envconfig:"PAGE_SIZE"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	SealToken bool   `envconfig:"SEAL_TOKEN"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://getpocket.com"
	c.AuthorizeURL = "https://getpocket.com/auth/authorize"
	c.RedirectURI = "readkeeper:authorized"
	c.DatabasePath = defaultDatabasePath()
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "readkeeper.db"
	}
	return filepath.Join(dir, "readkeeper", "readkeeper.db")
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ConsumerKey) == "" {
		return fmt.Errorf("consumer key cannot be empty (set %s_CONSUMER_KEY or --consumer-key)", EnvPrefix)
	}
	for name, raw := range map[string]string{"api base url": c.APIBaseURL, "authorize url": c.AuthorizeURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("redirect uri cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page size cannot be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Load builds a Config from defaults, the JSON file named by the config flag,
// the environment and explicitly set flags, then validates it. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if fs != nil {
		if path, _ := fs.GetString(FlagConfig); path != "" {
			if err := loadJSON(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if fs != nil {
		if err := applyFlags(fs, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
