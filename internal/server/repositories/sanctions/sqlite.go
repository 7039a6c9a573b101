package sanctions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/dbx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Sanction) (*models.Sanction, error) {
	createdAt := r.now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sanciones (fecha, objetivo, accion, motivo, gravedad, conteo, pruebas, moderador, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Fecha, s.Objetivo, s.Accion, s.Motivo, s.Gravedad, s.Conteo, s.Pruebas, s.Moderador,
		createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.ID = id
	s.CreatedAt = createdAt
	return s, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Sanction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fecha, objetivo, accion, motivo, gravedad, conteo, pruebas, moderador, created_at
		FROM sanciones
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Sanction, 0)
	for rows.Next() {
		var s models.Sanction
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Fecha, &s.Objetivo, &s.Accion, &s.Motivo,
			&s.Gravedad, &s.Conteo, &s.Pruebas, &s.Moderador, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("db error: created_at: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
