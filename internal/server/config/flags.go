package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-w", "-t", "-b", "-r", "-l"}

// KnownFlags lists every flag LoadConfig consumes, config file flags included.
func KnownFlags() []string {
	return append([]string{"-c", "-config"}, serverFlags...)
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-d string   database DSN (postgres:// URL or SQLite path)
//	-s string   session signing secret
//	-w string   Discord webhook URL
//	-t int      webhook timeout, seconds
//	-b string   session backend: filesystem, redis or cookie
//	-r string   redis address
//	-l string   log backend: slog or zap
//
// args is filtered with flagx.FilterArgs first so flags meant for other
// components (such as -c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session secret key")
	fs.StringVar(&config.WebhookURL, "w", config.WebhookURL, "discord webhook URL")
	timeout := fs.Int("t", int(config.WebhookTimeout.Seconds()), "webhook timeout (in seconds)")
	fs.StringVar(&config.SessionBackend, "b", config.SessionBackend, "session backend")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.WebhookTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
