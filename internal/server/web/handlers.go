package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
	"github.com/dmitrijs2005/sanctionlog/internal/server/relay"
	"github.com/dmitrijs2005/sanctionlog/internal/server/services"
	"github.com/dmitrijs2005/sanctionlog/internal/server/session"
	"github.com/go-chi/chi/v5/middleware"
)

// User-visible messages.
const (
	msgNotAuthenticated   = "Not authenticated"
	msgCredentialsMissing = "Username and password required"
	msgInvalidCredentials = "Invalid credentials"
	msgSignedOut          = "Signed out"
	msgSanctionSent       = "Sanction sent and saved"
	msgWebhookMissing     = "Webhook not configured"
	msgWebhookFailed      = "Error sending webhook: "
	msgInvalidBody        = "Invalid JSON body"
	msgInternal           = "internal error"
)

type response struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg,omitempty"`
}

type listResponse struct {
	OK   bool              `json:"ok"`
	Data []models.Sanction `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if s.sessions.CurrentUser(r) != "" {
		http.Redirect(w, r, "/panel", http.StatusFound)
		return
	}

	flashes, err := s.sessions.Flashes(w, r)
	if err != nil {
		s.logger.Warn(r.Context(), "flash read failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}

	s.render(w, r, "login.html", &pageData{Flashes: flashes})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.flashAndRedirect(w, r, msgCredentialsMissing)
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		s.flashAndRedirect(w, r, msgCredentialsMissing)
		return
	}

	ok, err := s.users.VerifyUser(ctx, username, password)
	if err != nil {
		s.logger.Error(ctx, "credential check failed", "request_id", middleware.GetReqID(ctx), "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if !ok {
		s.logger.Info(ctx, "login rejected", "username", username)
		s.flashAndRedirect(w, r, msgInvalidCredentials)
		return
	}

	if err := s.sessions.Login(w, r, username); err != nil {
		s.logger.Error(ctx, "session save failed", "request_id", middleware.GetReqID(ctx), "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	s.logger.Info(ctx, "user signed in", "username", username)
	http.Redirect(w, r, "/panel", http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(w, r, msgSignedOut); err != nil {
		s.logger.Warn(r.Context(), "session save failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) panel(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	s.render(w, r, "panel.html", &pageData{User: user})
}

func (s *Server) sendSanction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := session.UserFromContext(ctx)

	req := &services.SanctionRequest{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{OK: false, Msg: msgInvalidBody})
		return
	}

	_, err := s.sanctions.Submit(ctx, user, req)
	var delivery *relay.DeliveryError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, response{OK: true, Msg: msgSanctionSent})
	case errors.Is(err, common.ErrWebhookDisabled):
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Msg: msgWebhookMissing})
	case errors.As(err, &delivery):
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Msg: msgWebhookFailed + delivery.Reason})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, response{OK: false, Msg: msgNotAuthenticated})
	default:
		s.logger.Error(ctx, "submit sanction failed", "request_id", middleware.GetReqID(ctx), "error", err)
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Msg: msgInternal})
	}
}

func (s *Server) listSanctions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.sanctions.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list sanctions failed", "request_id", middleware.GetReqID(ctx), "error", err)
		writeJSON(w, http.StatusInternalServerError, response{OK: false, Msg: msgInternal})
		return
	}
	writeJSON(w, http.StatusOK, listResponse{OK: true, Data: list})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{OK: true})
}

func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, msg string) {
	if err := s.sessions.AddFlash(w, r, msg); err != nil {
		s.logger.Warn(r.Context(), "session save failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
