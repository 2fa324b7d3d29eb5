package database

import (
	"database/sql"
	"fmt"
)

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS credit_orders (
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL UNIQUE,
    order_status SMALLINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_credit_orders_status ON credit_orders(order_status);
`

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS credit_orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id INTEGER NOT NULL UNIQUE,
    order_status INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_credit_orders_status ON credit_orders(order_status);
`

func InitSchema(db *sql.DB, dialect Dialect) error {
	schema := postgresSchemaSQL
	if dialect == SQLite {
		schema = sqliteSchemaSQL
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// DropSchema removes the table. Run by dskcredit -uninstall.
func DropSchema(db *sql.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS credit_orders`); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
