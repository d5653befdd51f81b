package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// NewDBConnection opens the pool and checks it with a Ping.
func NewDBConnection(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id          UUID PRIMARY KEY,
	row_id      BIGINT GENERATED BY DEFAULT AS IDENTITY (START WITH 2) UNIQUE,
	created_at  TEXT NOT NULL DEFAULT '',
	form_name   TEXT NOT NULL DEFAULT '',
	nom         TEXT NOT NULL DEFAULT '',
	prenom      TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	telephone   TEXT NOT NULL DEFAULT '',
	ville       TEXT NOT NULL DEFAULT '',
	prestation  TEXT NOT NULL DEFAULT '',
	details     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'nouveau',
	sent_to     TEXT NOT NULL DEFAULT '',
	sent_at     TEXT NOT NULL DEFAULT '',
	source_url  TEXT NOT NULL DEFAULT '',
	lead_type   TEXT NOT NULL DEFAULT '',
	price_ttc   TEXT NOT NULL DEFAULT '',
	msclkid     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS client_emails (
	position INT PRIMARY KEY,
	email    TEXT NOT NULL
);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
