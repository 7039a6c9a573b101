package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newStore opens a migrated in-memory SQLite store.
func newStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, m, err := repomanager.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m
}

func newUserService(t *testing.T) (*UserService, *sql.DB) {
	t.Helper()
	db, m := newStore(t)
	s := NewUserService(db, m)
	s.cost = bcrypt.MinCost
	return s, db
}
