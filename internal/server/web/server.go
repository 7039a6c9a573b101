// Package web serves the login page, the moderation panel and the JSON
// endpoints behind them.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
	"github.com/dmitrijs2005/sanctionlog/internal/server/services"
	"github.com/dmitrijs2005/sanctionlog/internal/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	maxBodyBytes      = 1 << 20
)

// UserVerifier checks login credentials.
type UserVerifier interface {
	VerifyUser(ctx context.Context, username, password string) (bool, error)
}

// SanctionService stores, relays and lists sanctions.
type SanctionService interface {
	Submit(ctx context.Context, moderator string, req *services.SanctionRequest) (*models.Sanction, error)
	List(ctx context.Context) ([]models.Sanction, error)
}

type Server struct {
	address      string
	writeTimeout time.Duration
	logger       logging.Logger
	users        UserVerifier
	sanctions    SanctionService
	sessions     *session.Manager
	views        *views
}

// NewServer builds the HTTP server. relayTimeout bounds one webhook call and
// is used to size the write timeout so a slow webhook cannot cut off the
// response.
func NewServer(address string, l logging.Logger, users UserVerifier, sanctions SanctionService,
	sessions *session.Manager, relayTimeout time.Duration) (*Server, error) {

	v, err := loadViews()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &Server{
		address:      address,
		writeTimeout: relayTimeout + 10*time.Second,
		logger:       l.With("module", "http_server"),
		users:        users,
		sanctions:    sanctions,
		sessions:     sessions,
		views:        v,
	}, nil
}

// Handler returns the routed handler wrapped in the common middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodGet)
	r.Handle("/panel", s.requirePage(http.HandlerFunc(s.panel))).Methods(http.MethodGet)
	r.Handle("/send_sancion", s.requireAPI(http.HandlerFunc(s.sendSanction))).Methods(http.MethodPost)
	r.Handle("/api/sanciones", s.requireAPI(http.HandlerFunc(s.listSanctions))).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticHandler()))

	return chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	).Handler(r)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      s.writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
