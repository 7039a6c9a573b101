// Package sanctions stores sanction records. Records are append-only.
package sanctions

import (
	"context"

	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

// Repository persists sanction records.
//
// Create assigns ID and CreatedAt. ListAll returns every record newest
// first (by id) and never returns a nil slice.
type Repository interface {
	Create(ctx context.Context, s *models.Sanction) (*models.Sanction, error)
	ListAll(ctx context.Context) ([]models.Sanction, error)
}
