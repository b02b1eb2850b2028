// Package sqlite is the local storage adapter: partners, profiles, local
// accounts and server-side sessions in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// basePragmas apply to every connection. WAL is added for file databases
// only; it has no effect on in-memory ones.
var basePragmas = []string{
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"cache_size(-16000)",
}

// DB provides dual reader/writer database connections.
// The writer pool holds a single connection to avoid "database is locked" errors;
// the reader pool allows up to 4 concurrent readers.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the database file at dbPath with WAL mode, a busy timeout and
// foreign keys enabled, and applies pending migrations.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	pragmas := append([]string{"journal_mode(WAL)"}, basePragmas...)
	db, err := open(ctx, buildDSN("file:"+dbPath, nil, pragmas))
	if err != nil {
		return nil, err
	}
	db.path = dbPath

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// buildDSN assembles a modernc.org/sqlite URI from a file name, plain URI
// parameters and _pragma values.
func buildDSN(name string, params []string, pragmas []string) string {
	parts := make([]string, 0, len(params)+len(pragmas))
	parts = append(parts, params...)
	for _, p := range pragmas {
		parts = append(parts, "_pragma="+p)
	}
	return name + "?" + strings.Join(parts, "&")
}

// open creates and pings the writer and reader pools for dsn.
func open(ctx context.Context, dsn string) (*DB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: dsn}, nil
}

// Path returns the database file the DB was opened on.
func (db *DB) Path() string {
	return db.path
}

// Ping checks both pools. The healthcheck and startup use it.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.Writer.PingContext(ctx); err != nil {
		return fmt.Errorf("ping writer: %w", err)
	}
	if err := db.Reader.PingContext(ctx); err != nil {
		return fmt.Errorf("ping reader: %w", err)
	}
	return nil
}

// Close closes both reader and writer connections. Returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
