package sanctions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sanctionlog/internal/dbx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Sanction) (*models.Sanction, error) {
	query :=
		`INSERT INTO sanciones (fecha, objetivo, accion, motivo, gravedad, conteo, pruebas, moderador)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		s.Fecha, s.Objetivo, s.Accion, s.Motivo, s.Gravedad, s.Conteo, s.Pruebas, s.Moderador,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Sanction, error) {
	query :=
		`SELECT id, fecha, objetivo, accion, motivo, gravedad, conteo, pruebas, moderador, created_at
		 FROM sanciones
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Sanction, 0)
	for rows.Next() {
		var s models.Sanction
		if err := rows.Scan(&s.ID, &s.Fecha, &s.Objetivo, &s.Accion, &s.Motivo,
			&s.Gravedad, &s.Conteo, &s.Pruebas, &s.Moderador, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
