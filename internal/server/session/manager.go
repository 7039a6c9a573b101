package session

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "sanctionlog_session"

// Manager reads and writes the authenticated user and flash messages.
type Manager struct {
	store  sessions.Store
	logger logging.Logger
}

func NewManager(store sessions.Store, logger logging.Logger) *Manager {
	return &Manager{store: store, logger: logger.With("module", "session")}
}

// get never fails: an unreadable cookie (bad signature, expired, store
// miss) is treated as an anonymous session.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		m.logger.Debug(r.Context(), "discarding unreadable session", "error", err)
		if s == nil {
			s = sessions.NewSession(m.store, CookieName)
			s.IsNew = true
		}
	}
	return s
}

// CurrentUser returns the signed-in username or "".
func (m *Manager) CurrentUser(r *http.Request) string {
	username, _ := m.get(r).Values[common.SessionUserKey].(string)
	return username
}

// Login marks the session as belonging to username.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, username string) error {
	s := m.get(r)
	// fresh id on privilege change
	s.ID = ""
	s.Values[common.SessionUserKey] = username
	return s.Save(r, w)
}

// Logout forgets the user and queues flashes for the next page. Logging out
// an anonymous session is not an error.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request, flashes ...string) error {
	s := m.get(r)
	delete(s.Values, common.SessionUserKey)
	for _, f := range flashes {
		s.AddFlash(f)
	}
	return s.Save(r, w)
}

// AddFlash queues a one-time message for the next page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.get(r)
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes pops pending flash messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]string, error) {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out, s.Save(r, w)
}

type userKey struct{}

// WithUser stores username in ctx for handlers behind authentication.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey{}, username)
}

// UserFromContext returns the username set by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(userKey{}).(string)
	return u, ok && u != ""
}
