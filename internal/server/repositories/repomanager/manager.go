package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sanctionlog/internal/dbx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/sanctions"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/users"
)

// RepositoryManager vends repositories for one database dialect, bound to
// either a pool or a transaction, and owns the schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sanctions(db dbx.DBTX) sanctions.Repository
}
