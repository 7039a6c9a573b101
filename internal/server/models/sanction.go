package models

import "time"

// Sanction is one stored moderation action. Field names follow the
// historical storage and API contract.
type Sanction struct {
	ID        int64     `json:"id"`
	Fecha     string    `json:"fecha"`
	Objetivo  string    `json:"objetivo"`
	Accion    string    `json:"accion"`
	Motivo    string    `json:"motivo"`
	Gravedad  string    `json:"gravedad"`
	Conteo    int       `json:"conteo"`
	Pruebas   string    `json:"pruebas"`
	Moderador string    `json:"moderador"`
	CreatedAt time.Time `json:"created_at"`
}
