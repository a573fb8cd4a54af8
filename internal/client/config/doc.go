// Package config loads runtime configuration for the recipe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a dotenv file given with
//     -e or -env (./.env is picked up when present).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the recipe API
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-s int      substitution timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # Environment
//
//	RECIPES_API_URL, RECIPES_DB_PATH, RECIPES_REQUEST_TIMEOUT,
//	RECIPES_SUBSTITUTION_TIMEOUT, RECIPES_ONLINE_CHECK_INTERVAL,
//	RECIPES_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "db_path": "recipes.db",
//	  "request_timeout": "15s",
//	  "substitution_timeout": "30s",
//	  "online_check_interval": "30s",
//	  "log_level": "info"
//	}
package config
