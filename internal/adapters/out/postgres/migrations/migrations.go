// Package migrations owns the database schema. The SQL files are embedded and
// applied with goose, both by the migrate command and by the integration suites.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Open connects to postgres through lib/pq and checks the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Up applies every pending migration.
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func Down(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// Status prints the applied state of every migration.
func Status(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return goose.Status(db, ".")
}

func setup() error {
	goose.SetBaseFS(files)
	return goose.SetDialect("postgres")
}
