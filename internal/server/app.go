// Package server wires the sanction log together: storage, sessions, the
// webhook relay and the HTTP server, with graceful shutdown on signals.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/dmitrijs2005/sanctionlog/internal/server/config"
	"github.com/dmitrijs2005/sanctionlog/internal/server/relay"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sanctionlog/internal/server/services"
	"github.com/dmitrijs2005/sanctionlog/internal/server/session"
	"github.com/dmitrijs2005/sanctionlog/internal/server/web"
	"github.com/gorilla/sessions"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	flush           func() error
	closers         []func() error
	userService     *services.UserService
	sanctionService *services.SanctionService
	sessionStore    sessions.Store
}

// NewApp opens the store, applies migrations, bootstraps the admin account
// when one is configured and builds the session store. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, flush, err := logging.New(c.LogBackend, c.LogLevel, w)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	app := &App{config: c, logger: logger, flush: flush}

	repomanager.SetLogger(logger)
	db, m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	app.userService = services.NewUserService(db, m)

	if c.AdminUsername != "" && c.AdminPassword != "" {
		created, err := app.userService.EnsureUser(ctx, c.AdminUsername, c.AdminPassword)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
		if created {
			logger.Info(ctx, "admin account created", "username", c.AdminUsername)
		}
	}

	r := relay.New(c.WebhookURL, c.WebhookTimeout, logger)
	if !r.Enabled() {
		logger.Warn(ctx, "webhook URL is not set, sanctions will be stored but not relayed")
	}
	app.sanctionService = services.NewSanctionService(db, m, r, logger)

	store, closeStore, err := session.NewStore(ctx, session.Config{
		Backend:       c.SessionBackend,
		Dir:           c.SessionDir,
		Secret:        c.SecretKey,
		MaxAge:        c.SessionMaxAge,
		Secure:        c.SessionSecure,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("session store init error: %w", err)
	}
	app.closers = append(app.closers, closeStore)
	app.sessionStore = store

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newHTTPServer() (*web.Server, error) {
	return web.NewServer(
		app.config.HTTPAddr,
		app.logger,
		app.userService,
		app.sanctionService,
		session.NewManager(app.sessionStore, app.logger),
		app.config.WebhookTimeout,
	)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s, err := app.newHTTPServer()
	if err != nil {
		cancelFunc()
		return err
	}
	if err := s.Run(ctx); err != nil {
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases every resource NewApp acquired.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}
	app.logger.Info(ctx, "App stopped")

	return errors.Join(runErr, app.Close())
}

// Close releases the store, the session backend and flushes the logger,
// in reverse order of acquisition.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	// sync of a terminal or pipe fails on some platforms
	_ = app.flush()
	return errors.Join(errs...)
}
