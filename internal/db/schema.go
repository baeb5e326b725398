package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Money columns are TEXT and hold
// decimal strings; arithmetic on them happens in application code.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    name          TEXT NOT NULL,
    phone         TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'cashier' CHECK (role IN ('admin', 'cashier')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_email_active
    ON clients(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS licenses (
    id         INTEGER PRIMARY KEY,
    client_id  INTEGER NOT NULL REFERENCES clients(id),
    key        TEXT NOT NULL UNIQUE,
    status     TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'suspended')),
    issued_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS salespersons (
    id         INTEGER PRIMARY KEY,
    client_id  INTEGER REFERENCES clients(id),
    name       TEXT NOT NULL,
    phone      TEXT,
    active     INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS categories (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_active
    ON categories(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS products (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    barcode     TEXT,
    price       TEXT NOT NULL,
    stock_price TEXT,
    quantity    INTEGER NOT NULL DEFAULT 0,
    category_id INTEGER REFERENCES categories(id),
    sort_order  INTEGER NOT NULL DEFAULT 0,
    off_shelf   INTEGER NOT NULL DEFAULT 0,
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_products_barcode
    ON products(barcode) WHERE barcode IS NOT NULL;

CREATE TABLE IF NOT EXISTS sales (
    id             INTEGER PRIMARY KEY,
    receipt_number TEXT NOT NULL UNIQUE,
    total_amount   TEXT NOT NULL,
    payment_method TEXT NOT NULL,
    promotion      TEXT,
    discount       TEXT,
    remarks        TEXT,
    salesperson_id INTEGER REFERENCES salespersons(id),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

CREATE TABLE IF NOT EXISTS sale_items (
    id          INTEGER PRIMARY KEY,
    sale_id     INTEGER NOT NULL REFERENCES sales(id),
    product_id  INTEGER NOT NULL REFERENCES products(id),
    quantity    INTEGER NOT NULL,
    unit_price  TEXT NOT NULL,
    total_price TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);

CREATE TABLE IF NOT EXISTS expenses (
    id         INTEGER PRIMARY KEY,
    client_id  INTEGER REFERENCES clients(id),
    label      TEXT NOT NULL,
    category   TEXT,
    amount     TEXT NOT NULL,
    spent_on   TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS opening_balances (
    id         INTEGER PRIMARY KEY,
    day        TEXT NOT NULL UNIQUE,
    amount     TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: sales gained an optional salesperson reference after the
	// first release; backfill is a no-op because the column is nullable.
	`CREATE INDEX IF NOT EXISTS idx_sales_salesperson ON sales(salesperson_id)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
