// Package config loads runtime configuration for the readkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. Environment variables prefixed READKEEPER_ (a .env file in the working
//     directory is loaded by main before this runs).
//  4. Command-line flags registered by BindFlags. Only flags the user set
//     explicitly override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or
// integer nanoseconds. Absent keys keep the value from the previous stage:
//
//	{
//	  "api_base_url": "https://getpocket.com",
//	  "consumer_key": "1234-abcd",
//	  "database_path": "/home/me/.config/readkeeper/readkeeper.db",
//	  "request_timeout": "15s",
//	  "page_size": 100,
//	  "log_level": "info",
//	  "seal_token": false
//	}
//
// Environment
//
//	READKEEPER_API_BASE_URL, READKEEPER_AUTHORIZE_URL, READKEEPER_CONSUMER_KEY,
//	READKEEPER_REDIRECT_URI, READKEEPER_DATABASE_PATH, READKEEPER_REQUEST_TIMEOUT,
//	READKEEPER_PAGE_SIZE, READKEEPER_LOG_LEVEL, READKEEPER_SEAL_TOKEN
package config
