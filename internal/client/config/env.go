package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL          = "RECIPES_API_URL"
	EnvDBPath              = "RECIPES_DB_PATH"
	EnvRequestTimeout      = "RECIPES_REQUEST_TIMEOUT"
	EnvSubstitutionTimeout = "RECIPES_SUBSTITUTION_TIMEOUT"
	EnvOnlineCheckInterval = "RECIPES_ONLINE_CHECK_INTERVAL"
	EnvLogLevel            = "RECIPES_LOG_LEVEL"
)

// parseEnv overlays Config with environment variables. A dotenv file is
// loaded first: the one given with -e/-env, else ./.env when it exists.
// Variables already set in the process environment win over the file.
//
// Durations use time.ParseDuration syntax ("15s", "1m").
// Panics on an unreadable explicit dotenv file or a malformed duration.
func parseEnv(cfg *Config) {
	if file := flagx.EnvFileFlag(os.Args[1:]); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	cfg.RequestTimeout = envDuration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.SubstitutionTimeout = envDuration(EnvSubstitutionTimeout, cfg.SubstitutionTimeout)
	cfg.OnlineCheckInterval = envDuration(EnvOnlineCheckInterval, cfg.OnlineCheckInterval)
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
