package config

import (
	"github.com/spf13/pflag"
)

// Flag names registered by BindFlags.
const (
	FlagConfig         = "config"
	FlagAPIBaseURL     = "api-url"
	FlagConsumerKey    = "consumer-key"
	FlagDatabasePath   = "db"
	FlagRequestTimeout = "timeout"
	FlagPageSize       = "page-size"
	FlagLogLevel       = "log-level"
	FlagSealToken      = "seal-token"
)

// BindFlags registers the configuration flags on fs. Defaults shown in help
// are the zero values; unset flags never override other sources.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.String(FlagAPIBaseURL, "", "base URL of the read-later API")
	fs.String(FlagConsumerKey, "", "API consumer key")
	fs.String(FlagDatabasePath, "", "path of the local cache database")
	fs.Duration(FlagRequestTimeout, 0, "timeout of a single API request")
	fs.Int(FlagPageSize, 0, "fetch full snapshots in pages of this size (0 = one request)")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn or error")
	fs.Bool(FlagSealToken, false, "store the access token encrypted under a passphrase")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(fs *pflag.FlagSet, cfg *Config) error {
	strs := map[string]*string{
		FlagAPIBaseURL:   &cfg.APIBaseURL,
		FlagConsumerKey:  &cfg.ConsumerKey,
		FlagDatabasePath: &cfg.DatabasePath,
		FlagLogLevel:     &cfg.LogLevel,
	}
	for name, dst := range strs {
		if !changed(fs, name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if changed(fs, FlagRequestTimeout) {
		v, err := fs.GetDuration(FlagRequestTimeout)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = v
	}
	if changed(fs, FlagPageSize) {
		v, err := fs.GetInt(FlagPageSize)
		if err != nil {
			return err
		}
		cfg.PageSize = v
	}
	if changed(fs, FlagSealToken) {
		v, err := fs.GetBool(FlagSealToken)
		if err != nil {
			return err
		}
		cfg.SealToken = v
	}
	return nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
