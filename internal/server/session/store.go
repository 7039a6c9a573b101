// Package session tracks who is signed in. Session values live in a
// gorilla/sessions store; the browser only holds a signed cookie.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/filex"
	"github.com/gorilla/sessions"
	goredis "github.com/redis/go-redis/v9"
)

// Supported store backends.
const (
	BackendFilesystem = "filesystem"
	BackendRedis      = "redis"
	BackendCookie     = "cookie"
)

// Config selects and tunes the session store.
type Config struct {
	Backend string
	Dir     string
	Secret  string
	MaxAge  time.Duration
	Secure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Options returns the cookie options shared by every backend.
func (c Config) Options() *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewStore builds the store for cfg.Backend. The returned closer releases
// backend resources and is never nil.
func NewStore(ctx context.Context, cfg Config) (sessions.Store, func() error, error) {
	noop := func() error { return nil }

	if cfg.Secret == "" {
		return nil, noop, fmt.Errorf("session secret is empty")
	}
	key := []byte(cfg.Secret)
	opts := cfg.Options()

	switch cfg.Backend {
	case BackendFilesystem, "":
		dir := cfg.Dir
		if dir != "" {
			var err error
			if dir, err = filex.EnsureDir(dir); err != nil {
				return nil, noop, fmt.Errorf("session dir: %w", err)
			}
		}
		store := sessions.NewFilesystemStore(dir, key)
		store.MaxAge(opts.MaxAge)
		store.Options = opts
		return store, noop, nil

	case BackendCookie:
		store := sessions.NewCookieStore(key)
		store.MaxAge(opts.MaxAge)
		store.Options = opts
		return store, noop, nil

	case BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		store := NewRedisStore(client, key)
		store.Options = opts
		store.MaxAge(opts.MaxAge)
		return store, client.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown session backend %q", cfg.Backend)
}
