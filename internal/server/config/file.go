package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Only fields present
// in the file override the current values.
type FileConfig struct {
	HTTPAddr       string   `json:"http_addr" yaml:"http_addr"`
	DatabaseDSN    string   `json:"database_dsn" yaml:"database_dsn"`
	SecretKey      string   `json:"secret_key" yaml:"secret_key"`
	WebhookURL     string   `json:"webhook_url" yaml:"webhook_url"`
	WebhookTimeout Duration `json:"webhook_timeout" yaml:"webhook_timeout"`
	AdminUsername  string   `json:"admin_username" yaml:"admin_username"`
	AdminPassword  string   `json:"admin_password" yaml:"admin_password"`
	SessionBackend string   `json:"session_backend" yaml:"session_backend"`
	SessionDir     string   `json:"session_dir" yaml:"session_dir"`
	SessionMaxAge  Duration `json:"session_max_age" yaml:"session_max_age"`
	SessionSecure  *bool    `json:"session_secure" yaml:"session_secure"`
	RedisAddr      string   `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword  string   `json:"redis_password" yaml:"redis_password"`
	RedisDB        *int     `json:"redis_db" yaml:"redis_db"`
	LogBackend     string   `json:"log_backend" yaml:"log_backend"`
	LogLevel       string   `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file at path onto config. The format is
// picked by extension: .yaml and .yml are YAML, anything else is JSON.
// An empty path is a no-op.
func parseFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, fc.HTTPAddr)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.WebhookURL, fc.WebhookURL)
	setString(&config.AdminUsername, fc.AdminUsername)
	setString(&config.AdminPassword, fc.AdminPassword)
	setString(&config.SessionBackend, fc.SessionBackend)
	setString(&config.SessionDir, fc.SessionDir)
	setString(&config.RedisAddr, fc.RedisAddr)
	setString(&config.RedisPassword, fc.RedisPassword)
	setString(&config.LogBackend, fc.LogBackend)
	setString(&config.LogLevel, fc.LogLevel)

	if fc.WebhookTimeout.Duration != 0 {
		config.WebhookTimeout = fc.WebhookTimeout.Duration
	}
	if fc.SessionMaxAge.Duration != 0 {
		config.SessionMaxAge = fc.SessionMaxAge.Duration
	}
	if fc.SessionSecure != nil {
		config.SessionSecure = *fc.SessionSecure
	}
	if fc.RedisDB != nil {
		config.RedisDB = *fc.RedisDB
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
