// Package repomanager wires repository constructors and goose migrations for
// PostgreSQL and SQLite, and opens the store selected by a DSN.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sanctionlog/internal/dbx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/migrations"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/sanctions"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Sanctions returns a sanctions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sanctions(db dbx.DBTX) sanctions.Repository {
	return sanctions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "postgres")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
