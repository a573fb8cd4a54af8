package config

import "time"

// Config holds runtime settings for the recipe CLI.
//
// Fields:
//   - APIBaseURL: base URL of the recipe REST API, including the /api prefix.
//   - DBPath: path of the local SQLite file holding the stored credential.
//   - RequestTimeout: upper bound for a single API request.
//   - SubstitutionTimeout: upper bound for one ingredient substitution.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string
	DBPath              string
	RequestTimeout      time.Duration
	SubstitutionTimeout time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.DBPath = "recipes.db"
	c.RequestTimeout = 15 * time.Second
	c.SubstitutionTimeout = 30 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a dotenv file), JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
