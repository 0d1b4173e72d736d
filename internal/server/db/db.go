// Package db is the SQL store of tournament data. Statements are built with
// the ent SQL builder so one code path serves sqlite, postgres and mysql.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/arenax/arenax/internal/log"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Store gives access to the tournament tables.
type Store struct {
	db      *sql.DB
	dialect string
	debug   bool
}

// Open connects to the database described by cfg and creates missing tables.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driverName, dbDialect, err := resolveDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbDialect, err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", dbDialect, err)
	}

	s := &Store{db: sqlDB, dialect: dbDialect, debug: cfg.Debug}

	if err := s.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info(ctx, "database ready", log.String("dialect", dbDialect))

	return s, nil
}

func resolveDialect(name string) (driverName, dbDialect string, err error) {
	switch name {
	case "postgres", "pgx", "postgresdb", "pg", "postgresql":
		return "pgx", dialect.Postgres, nil
	case "sqlite3", "sqlite", "":
		return "sqlite", dialect.SQLite, nil
	case "mysql", "tidb":
		return "mysql", dialect.MySQL, nil
	default:
		return "", "", fmt.Errorf("invalid dialect: %s", name)
	}
}

// Dialect returns the ent dialect name.
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

type querier interface {
	Query() (string, []any)
}

func (s *Store) exec(ctx context.Context, q querier) (sql.Result, error) {
	query, args := q.Query()

	if s.debug {
		log.Debug(ctx, "sql exec", log.String("query", query), log.Int("args", len(args)))
	}

	return s.db.ExecContext(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, q querier) (*sql.Rows, error) {
	query, args := q.Query()

	if s.debug {
		log.Debug(ctx, "sql query", log.String("query", query), log.Int("args", len(args)))
	}

	return s.db.QueryContext(ctx, query, args...)
}

// queryRows runs q and scans every row with scan.
func queryRows[T any](ctx context.Context, s *Store, q querier, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn(ctx, "failed to close rows", log.Cause(err))
		}
	}()

	var out []T

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

// queryOne returns the first row of q or ErrNotFound.
func queryOne[T any](ctx context.Context, s *Store, q querier, scan func(*sql.Rows) (T, error)) (T, error) {
	items, err := queryRows(ctx, s, q, scan)
	if err != nil {
		var zero T
		return zero, err
	}

	if len(items) == 0 {
		var zero T
		return zero, ErrNotFound
	}

	return items[0], nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
