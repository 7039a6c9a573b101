package relay

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

// Payload is the webhook body.
type Payload struct {
	Embeds []Embed `json:"embeds"`
}

type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
	Timestamp   string  `json:"timestamp"`
}

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// BuildPayload renders s as a single embed sent at now.
func BuildPayload(s *models.Sanction, target string, now time.Time) Payload {
	evidence := s.Pruebas
	if strings.TrimSpace(evidence) == "" {
		evidence = noEvidenceValue
	}

	return Payload{Embeds: []Embed{{
		Title:       embedTitle,
		Description: "**Action:** " + orDash(s.Accion),
		Fields: []Field{
			{Name: "Target", Value: orDash(target), Inline: true},
			{Name: "Moderator", Value: orDash(s.Moderador), Inline: true},
			{Name: "Date", Value: orDash(s.Fecha), Inline: true},
			{Name: "Reason", Value: orDash(s.Motivo), Inline: false},
			{Name: "Severity", Value: orDash(s.Gravedad), Inline: true},
			{Name: "Count", Value: strconv.Itoa(s.Conteo), Inline: true},
			{Name: "Evidence", Value: evidence, Inline: false},
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}}}
}

// orDash replaces blank values, which Discord rejects.
func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return emptyValue
	}
	return v
}
