package db

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// Migrate creates missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w: %s", err, stmt)
		}
	}

	return nil
}

func schemaStatements(d string) []string {
	ts := "DATETIME"
	text := "TEXT"

	switch d {
	case dialect.Postgres:
		ts = "TIMESTAMPTZ"
	case dialect.MySQL:
		ts = "DATETIME(6)"
		text = "LONGTEXT"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			captain_name VARCHAR(255) NOT NULL,
			captain_phone VARCHAR(64) NOT NULL,
			captain_email VARCHAR(255) NOT NULL,
			status VARCHAR(32) NOT NULL,
			logo_url VARCHAR(1024) NOT NULL DEFAULT '',
			created_at {ts} NOT NULL,
			updated_at {ts} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			reference VARCHAR(64) PRIMARY KEY,
			team_id VARCHAR(64) NOT NULL,
			amount VARCHAR(64) NOT NULL,
			currency VARCHAR(8) NOT NULL,
			phone VARCHAR(64) NOT NULL,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			status VARCHAR(32) NOT NULL,
			provider_transaction_id VARCHAR(64) NOT NULL DEFAULT '',
			raw_data {text},
			created_at {ts} NOT NULL,
			updated_at {ts} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS announcements (
			id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			body {text} NOT NULL,
			pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at {ts} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id VARCHAR(64) PRIMARY KEY,
			round INTEGER NOT NULL,
			home_team_id VARCHAR(64) NOT NULL,
			away_team_id VARCHAR(64) NOT NULL,
			home_score INTEGER NOT NULL DEFAULT 0,
			away_score INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL,
			played_at {ts} NULL,
			created_at {ts} NOT NULL
		)`,
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; there the unique constraint
	// is checked in the service layer only.
	if d != dialect.MySQL {
		stmts = append(stmts,
			`CREATE UNIQUE INDEX IF NOT EXISTS teams_name_key ON teams (name)`,
			`CREATE INDEX IF NOT EXISTS payments_team_id_idx ON payments (team_id)`,
			`CREATE INDEX IF NOT EXISTS payments_provider_transaction_id_idx ON payments (provider_transaction_id)`,
		)
	}

	r := strings.NewReplacer("{ts}", ts, "{text}", text)
	for i, stmt := range stmts {
		stmts[i] = r.Replace(stmt)
	}

	return stmts
}
