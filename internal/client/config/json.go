package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/readkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key apart from a zero value.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	AuthorizeURL   *string         `json:"authorize_url"`
	ConsumerKey    *string         `json:"consumer_key"`
	RedirectURI    *string         `json:"redirect_uri"`
	DatabasePath   *string         `json:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	PageSize       *int            `json:"page_size"`
	LogLevel       *string         `json:"log_level"`
	SealToken      *bool           `json:"seal_token"`
}

// loadJSON overlays cfg with the keys present in the file at path.
func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.AuthorizeURL, jc.AuthorizeURL)
	setString(&cfg.ConsumerKey, jc.ConsumerKey)
	setString(&cfg.RedirectURI, jc.RedirectURI)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.SealToken != nil {
		cfg.SealToken = *jc.SealToken
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
