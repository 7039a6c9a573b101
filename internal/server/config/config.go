// Package config builds the server configuration from defaults, an optional
// JSON or YAML file, the environment and command-line flags, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/flagx"
)

// Config holds runtime settings for the sanction log server.
//
// Fields:
//   - HTTPAddr: bind address of the web server (e.g. ":5000").
//   - DatabaseDSN: PostgreSQL URL or SQLite path/DSN. Required.
//   - SecretKey: key used to sign session cookies. Override the default in prod.
//   - WebhookURL: Discord webhook; empty disables the relay.
//   - WebhookTimeout: upper bound of a single webhook call.
//   - AdminUsername / AdminPassword: optional account ensured at startup.
//   - Session*: session backend ("filesystem", "redis" or "cookie") and cookie options.
//   - Redis*: connection settings for the redis session backend.
//   - LogBackend / LogLevel: "slog" or "zap", and the minimum level.
type Config struct {
	HTTPAddr       string
	DatabaseDSN    string
	SecretKey      string
	WebhookURL     string
	WebhookTimeout time.Duration
	AdminUsername  string
	AdminPassword  string
	SessionBackend string
	SessionDir     string
	SessionMaxAge  time.Duration
	SessionSecure  bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LogBackend     string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.SecretKey = "change-me-now"
	c.WebhookTimeout = 10 * time.Second
	c.SessionBackend = "filesystem"
	c.SessionDir = os.TempDir()
	c.SessionMaxAge = 7 * 24 * time.Hour
	c.RedisAddr = "127.0.0.1:6379"
	c.LogBackend = "slog"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file, the environment (after loading .env) and
// finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, flagx.ConfigFileFlag()); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case "filesystem", "redis", "cookie":
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("webhook timeout must be positive, got %s", c.WebhookTimeout)
	}
	// a negative max age makes every session save delete the cookie
	if c.SessionMaxAge < 0 {
		return fmt.Errorf("session max age must not be negative, got %s", c.SessionMaxAge)
	}
	return nil
}
