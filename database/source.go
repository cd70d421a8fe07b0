// Package database is the tabular data provider: it turns the retail ERP
// mirror into the seven row-sets the payload mappers consume. Queries are
// plain SQL constants selected into typed row structs; everything beyond
// "rows in, given date and branch" lives elsewhere.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Source is one open connection to the retail database. It is owned by the
// orchestrator for the duration of a run and closed when the run ends.
type Source struct {
	db *sqlx.DB
}

// Open connects to the retail database. The driver/DSN pair comes from the
// configuration so the same provider runs against any database/sql driver.
func Open(driver, dsn string) (*Source, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &Source{db: db}, nil
}

func (s *Source) Close() error {
	return s.db.Close()
}

// Ping re-checks the connection; used by the connectivity test command.
func (s *Source) Ping() error {
	return s.db.Ping()
}
