package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
)

// Defaults applied to fields the caller leaves out or sends as null.
const (
	DefaultObjetivo = "—"
	DefaultAccion   = "sanction"
	DefaultMotivo   = "—"
	DefaultGravedad = "Medium"
)

// SanctionRequest is the body accepted by the submit endpoint. Every key is
// optional; values are kept raw so numbers, strings and null can all be
// normalized the same way.
type SanctionRequest struct {
	Fecha    json.RawMessage `json:"fecha"`
	Objetivo json.RawMessage `json:"objetivo"`
	UserID   json.RawMessage `json:"user_id"`
	Accion   json.RawMessage `json:"accion"`
	Motivo   json.RawMessage `json:"motivo"`
	Gravedad json.RawMessage `json:"gravedad"`
	Conteo   json.RawMessage `json:"conteo"`
	Pruebas  json.RawMessage `json:"pruebas"`
}

// Notifier announces a stored sanction. target is the display form of the
// sanctioned user, which may differ from the stored Objetivo.
type Notifier interface {
	Notify(ctx context.Context, s *models.Sanction, target string) error
}

// SanctionService stores sanction records and relays them.
type SanctionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	logger      logging.Logger
	now         func() time.Time
}

func NewSanctionService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, l logging.Logger) *SanctionService {
	return &SanctionService{
		db:          db,
		repomanager: m,
		notifier:    n,
		logger:      l.With("module", "sanctions"),
		now:         time.Now,
	}
}

// Submit normalizes req, stores it under moderator and then notifies.
// The stored record is returned even when notification fails; a stored
// record is never rolled back.
func (s *SanctionService) Submit(ctx context.Context, moderator string, req *SanctionRequest) (*models.Sanction, error) {
	if moderator == "" {
		return nil, common.ErrorUnauthorized
	}

	rec, target := NormalizeSanction(req, moderator, s.now())

	stored, err := s.repomanager.Sanctions(s.db).Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error storing sanction: %w", err)
	}
	s.logger.Info(ctx, "sanction stored", "id", stored.ID, "moderator", moderator, "action", stored.Accion)

	if err := s.notifier.Notify(ctx, stored, target); err != nil {
		s.logger.Warn(ctx, "sanction notification failed", "id", stored.ID, "error", err)
		return stored, err
	}
	return stored, nil
}

// List returns every stored sanction, newest first.
func (s *SanctionService) List(ctx context.Context) ([]models.Sanction, error) {
	list, err := s.repomanager.Sanctions(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sanctions: %w", err)
	}
	return list, nil
}

// NormalizeSanction applies defaults to req and builds the record to store
// together with the notification form of the target.
func NormalizeSanction(req *SanctionRequest, moderator string, now time.Time) (*models.Sanction, string) {
	if req == nil {
		req = &SanctionRequest{}
	}

	fecha, ok := rawText(req.Fecha)
	if !ok || strings.TrimSpace(fecha) == "" {
		fecha = now.UTC().Format(common.DateLayout)
	}

	objetivo := textOr(req.Objetivo, DefaultObjetivo)
	target := objetivo
	if uid, ok := rawText(req.UserID); ok {
		if uid = strings.TrimSpace(uid); uid != "" {
			target = fmt.Sprintf("%s (<@%s>)", objetivo, uid)
			objetivo = fmt.Sprintf("%s (ID: %s)", objetivo, uid)
		}
	}

	pruebas, _ := rawText(req.Pruebas)

	return &models.Sanction{
		Fecha:     fecha,
		Objetivo:  objetivo,
		Accion:    textOr(req.Accion, DefaultAccion),
		Motivo:    textOr(req.Motivo, DefaultMotivo),
		Gravedad:  textOr(req.Gravedad, DefaultGravedad),
		Conteo:    parseConteo(req.Conteo),
		Pruebas:   pruebas,
		Moderador: moderator,
	}, target
}

// rawText turns a raw JSON value into text. Strings are unquoted, other
// scalars keep their literal form. Absent and null report false. NUL bytes
// are dropped; PostgreSQL TEXT columns reject them.
func rawText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.ReplaceAll(s, "\x00", ""), true
		}
	}
	return string(raw), true
}

func textOr(raw json.RawMessage, def string) string {
	if v, ok := rawText(raw); ok {
		return v
	}
	return def
}

// parseConteo accepts JSON numbers (truncated toward zero) and strings
// holding a base-10 integer. Everything else is 0.
func parseConteo(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return boundedConteo(float64(n))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0
		}
		return boundedConteo(f)
	}
	return 0
}

// boundedConteo truncates f and maps values outside the INTEGER column range
// to 0.
func boundedConteo(f float64) int {
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(math.Trunc(f))
}
