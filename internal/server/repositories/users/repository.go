package users

import (
	"context"

	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

// Repository persists staff accounts.
//
// Create returns common.ErrorAlreadyExists when the username is taken.
// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}
