// Package sqlite persiste el libro en un archivo SQLite para bares con un solo terminal
// sin servidor de base de datos. Implementa los mismos puertos que el adaptador PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout ancho fijo en UTC: el orden lexicográfico coincide con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Querier lo que los repositorios necesitan de la conexión: lo cumplen *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Open abre (o crea) la base y aplica el esquema. path ":memory:" crea una base en memoria.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor; con :memory: además cada conexión sería una base distinta.
	db.SetMaxOpenConns(1)
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			size TEXT NOT NULL DEFAULT '',
			ml_per_bottle TEXT NOT NULL,
			bottles_per_case INTEGER NOT NULL CHECK (bottles_per_case > 0),
			category TEXT NOT NULL DEFAULT '',
			tax_category TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ledger_open (
			product_id TEXT PRIMARY KEY REFERENCES products (id),
			period TEXT NOT NULL,
			opening_ml TEXT NOT NULL,
			purchases_ml TEXT NOT NULL,
			sales_pegs TEXT NOT NULL,
			wastage_ml TEXT NOT NULL,
			current_ml TEXT NOT NULL,
			version INTEGER NOT NULL,
			opened_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ledger_archive (
			product_id TEXT NOT NULL REFERENCES products (id),
			version INTEGER NOT NULL,
			period TEXT NOT NULL,
			closed_at TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (product_id, version)
		);`,
		`CREATE TABLE IF NOT EXISTS ledger_movements (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products (id),
			period TEXT NOT NULL,
			type TEXT NOT NULL,
			volume_ml TEXT NOT NULL,
			count INTEGER NOT NULL,
			total_ml TEXT NOT NULL,
			version INTEGER NOT NULL,
			at TEXT NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS ledger_movements_product_at_idx ON ledger_movements (product_id, at);`,
		`CREATE INDEX IF NOT EXISTS ledger_movements_type_at_idx ON ledger_movements (type, at);`,
		`CREATE TABLE IF NOT EXISTS discrepancy_flags (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products (id),
			period TEXT NOT NULL,
			delta_ml TEXT NOT NULL,
			detected_at TEXT NOT NULL,
			resolved_at TEXT,
			resolved_by TEXT NOT NULL DEFAULT '',
			resolution TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS discrepancy_flags_open_uq
			ON discrepancy_flags (product_id, period) WHERE resolved_at IS NULL;`,
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("esquema sqlite: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
