package config

import "time"

// Config holds runtime settings for the Villa CLI.
//
// Fields:
//   - ServerURL: base URL of the backend store/auth HTTP API.
//   - DirectoryURL: base URL of the nickname directory service. Usually the
//     same host as ServerURL but kept separate so the directory can be split
//     out later.
//   - CachePath: path of the local SQLite cache file.
//   - CelebrationDelay: how long the success screen is shown before the flow
//     hands control back to the host.
//
// Units: CelebrationDelay is a time.Duration (e.g., 1500*time.Millisecond).
type Config struct {
	ServerURL        string
	DirectoryURL     string
	CachePath        string
	CelebrationDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DirectoryURL = "http://127.0.0.1:8080"
	c.CachePath = "villa.db"
	c.CelebrationDelay = 1500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
