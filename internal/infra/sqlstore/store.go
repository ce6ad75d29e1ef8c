// Package sqlstore provides a database/sql implementation of KVStore for
// SQLite (modernc.org/sqlite) and PostgreSQL (pgx stdlib).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/focusquest/focusquest/internal/domain"
)

// Dialect holds the SQL that differs between databases.
type Dialect struct {
	Name        string // Backend name (domain.BackendSQLite, domain.BackendPostgres)
	Driver      string // database/sql driver name
	selectValue string
	upsertValue string
	tableExists string
}

// SQLite is the modernc.org/sqlite dialect.
var SQLite = Dialect{
	Name:        domain.BackendSQLite,
	Driver:      "sqlite",
	selectValue: `SELECT item_value FROM kv_store WHERE namespace = ? AND item_key = ?`,
	upsertValue: `INSERT INTO kv_store (namespace, item_key, item_value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
	tableExists: `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv_store'`,
}

// Postgres is the pgx stdlib dialect.
var Postgres = Dialect{
	Name:        domain.BackendPostgres,
	Driver:      "pgx",
	selectValue: `SELECT item_value FROM kv_store WHERE namespace = $1 AND item_key = $2`,
	upsertValue: `INSERT INTO kv_store (namespace, item_key, item_value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
	tableExists: `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'kv_store'`,
}

const createTable = `CREATE TABLE IF NOT EXISTS kv_store (
	namespace  TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	item_value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (namespace, item_key)
)`

// DialectFor returns the dialect for a backend name.
func DialectFor(backend string) (Dialect, error) {
	switch backend {
	case domain.BackendSQLite:
		return SQLite, nil
	case domain.BackendPostgres:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %s", domain.ErrUnknownBackend, backend)
	}
}

// SQLiteDSN builds a modernc.org/sqlite DSN for a database file.
// A busy timeout lets concurrent fq processes wait for the write lock.
func SQLiteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Store implements domain.KVStore on a kv_store table.
// Every row is scoped by namespace so several users can share a database.
type Store struct {
	db        *sql.DB
	now       func() time.Time
	dialect   Dialect
	namespace string
}

// New creates a Store over an open database. The table is not created;
// call Initialize or use Open.
func New(db *sql.DB, dialect Dialect, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		db:        db,
		dialect:   dialect,
		namespace: namespace,
		now:       time.Now,
	}
}

// Open opens the database and creates the table if needed.
func Open(ctx context.Context, dialect Dialect, dsn, namespace string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect.Name, err)
	}
	if dialect.Name == domain.BackendSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	s := New(db, dialect, namespace)
	if err := s.Initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.selectValue, s.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Update stores value under key, replacing any previous value.
func (s *Store) Update(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsertValue, s.namespace, key, string(value), s.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Initialize creates the kv_store table if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

// IsInitialized reports whether the kv_store table exists.
func (s *Store) IsInitialized(ctx context.Context) bool {
	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.tableExists).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// Ensure Store implements the store ports.
var (
	_ domain.KVStore          = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
