package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

const sqlitePrefix = "sqlite:"

// DialectOf picks the driver from the URI scheme. Anything that is not
// sqlite:<path> goes to pgx.
func DialectOf(uri string) Dialect {
	if strings.HasPrefix(uri, sqlitePrefix) {
		return SQLite
	}
	return Postgres
}

func NewDB(uri string) (*sql.DB, Dialect, error) {
	dialect := DialectOf(uri)
	dsn := uri
	if dialect == SQLite {
		dsn = strings.TrimPrefix(uri, sqlitePrefix)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("failed to open db: %w", err)
	}

	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY
	// and keeps :memory: databases shared.
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("failed to ping db: %w", err)
	}

	return db, dialect, nil
}

func CloseDB(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close DB", "error", err)
	}
}
