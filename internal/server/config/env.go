package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFiles are loaded before the environment is read. Variables already
// set in the process environment win over the file.
var dotenvFiles = []string{".env"}

// parseEnv overlays values from environment variables onto config.
//
//	HTTP_ADDR, PORT, DATABASE_URL, APP_SECRET, DISCORD_WEBHOOK,
//	WEBHOOK_TIMEOUT, ADMIN_USERNAME, ADMIN_PASSWORD, SESSION_BACKEND,
//	SESSION_DIR, SESSION_MAX_AGE, SESSION_SECURE, REDIS_ADDR,
//	REDIS_PASSWORD, REDIS_DB, LOG_BACKEND, LOG_LEVEL
//
// PORT is only used when HTTP_ADDR is unset and becomes ":<PORT>".
func parseEnv(config *Config) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok && v != "" {
		config.HTTPAddr = v
	} else if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.HTTPAddr = ":" + v
	}

	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.SecretKey, "APP_SECRET")
	envString(&config.WebhookURL, "DISCORD_WEBHOOK")
	envString(&config.AdminUsername, "ADMIN_USERNAME")
	envString(&config.AdminPassword, "ADMIN_PASSWORD")
	envString(&config.SessionBackend, "SESSION_BACKEND")
	envString(&config.SessionDir, "SESSION_DIR")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envString(&config.LogBackend, "LOG_BACKEND")
	envString(&config.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("WEBHOOK_TIMEOUT"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("WEBHOOK_TIMEOUT: %w", err)
		}
		config.WebhookTimeout = d
	}
	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_MAX_AGE: %w", err)
		}
		config.SessionMaxAge = d
	}
	if v := os.Getenv("SESSION_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SESSION_SECURE: %w", err)
		}
		config.SessionSecure = b
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		config.RedisDB = n
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// parseSeconds accepts either a bare number of seconds or a Go duration.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
