package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Storage is the shared handle to the relational store. It is opened once
// during process initialization and injected into every resource handler.
type Storage struct {
	DB     *sql.DB
	Driver string
}

func Open(driver, dsn string) (*Storage, error) {
	switch driver {
	case DriverSQLite:
		// Store time.Time values in SQLite's own text format so they
		// scan back cleanly and ORDER BY sorts them chronologically.
		if !strings.Contains(dsn, "_time_format") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_time_format=sqlite"
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// A single connection keeps every statement on the same database
		// for in-memory DSNs and serializes writes to the file.
		db.SetMaxOpenConns(1)
		return &Storage{DB: db, Driver: DriverSQLite}, nil
	case DriverPostgres:
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres pool: %w", err)
		}
		return &Storage{DB: db, Driver: DriverPostgres}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", driver)
	}
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    priority TEXT NOT NULL DEFAULT 'medium',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    priority TEXT NOT NULL DEFAULT 'medium',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the two tables if they don't exist yet. There is no
// migration tooling: the schema never changes after creation.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	schema := sqliteSchema
	if s.Driver == DriverPostgres {
		schema = postgresSchema
	}

	_, err := s.DB.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Rebind rewrites "?" placeholders into the "$n" form when the postgres
// driver is active. SQLite queries pass through untouched.
func (s *Storage) Rebind(query string) string {
	if s.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// IsUniqueViolation reports whether err was caused by violating a UNIQUE
// constraint, so handlers can answer 409 instead of a generic failure.
func (s *Storage) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if s.Driver == DriverPostgres {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
	}
	// modernc.org/sqlite surfaces constraint failures only through the
	// message text.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
