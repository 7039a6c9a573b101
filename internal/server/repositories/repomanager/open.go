package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
)

// Driver names registered by the pgx stdlib and modernc sqlite packages.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// ParseDSN picks the database/sql driver for dsn and returns the data source
// string to hand to it.
//
//	postgres://..., postgresql://...   -> pgx, unchanged
//	sqlite://<path>                    -> sqlite, <path>
//	file:..., *.db, *.sqlite, :memory: -> sqlite, unchanged
func ParseDSN(dsn string) (driver, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", common.ErrMissingDSN
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite dsn without path: %q", dsn)
		}
		return DriverSQLite, path, nil
	case strings.HasPrefix(dsn, "file:"),
		strings.HasSuffix(dsn, ".db"),
		strings.HasSuffix(dsn, ".sqlite"),
		dsn == ":memory:":
		return DriverSQLite, dsn, nil
	}
	return "", "", fmt.Errorf("unsupported database dsn %q", dsn)
}

// Open connects to the store selected by dsn, verifies the connection and
// applies migrations. The caller owns the returned *sql.DB.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	var manager RepositoryManager
	switch driver {
	case DriverSQLite:
		// one writer at a time; also keeps :memory: on a single connection
		db.SetMaxOpenConns(1)
		manager = NewSQLiteRepositoryManager()
	default:
		manager = NewPostgresRepositoryManager()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := manager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return db, manager, nil
}
