// Package repository opens the relational record store and prepares its
// schema. The dialect is picked from the DATABASE_URL: postgres URLs and
// key=value DSNs go to lib/pq, "sqlite:" / "file:" / ":memory:" targets go to
// the embedded SQLite driver.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/users-server/internal/pkg/distlock"
	"github.com/ignite/users-server/internal/pkg/logger"
	"github.com/ignite/users-server/internal/repository/postgres"
	"github.com/ignite/users-server/internal/repository/sqlite"
)

// Dialect identifies the SQL backend behind a Store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const schemaLockKey = "users-server:schema"

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store wraps the pooled database handle.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// DetectDialect maps a store URL to its dialect and the DSN the driver expects.
func DetectDialect(url string) (Dialect, string) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://")
	case strings.HasPrefix(url, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite:")
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return DialectSQLite, url
	default:
		return DialectPostgres, url
	}
}

// Open opens the store and verifies it is reachable.
func Open(ctx context.Context, url string, pool PoolConfig) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	dialect, dsn := DetectDialect(url)

	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case DialectSQLite:
		db, err = sqlite.Open(dsn)
	default:
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			if pool.MaxOpenConns > 0 {
				db.SetMaxOpenConns(pool.MaxOpenConns)
			}
			if pool.MaxIdleConns > 0 {
				db.SetMaxIdleConns(pool.MaxIdleConns)
			}
			if pool.ConnMaxLifetime > 0 {
				db.SetConnMaxLifetime(pool.ConnMaxLifetime)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return &Store{DB: db, Dialect: dialect}, nil
}

// Users returns the user repository bound to this store.
func (s *Store) Users() *postgres.UserRepo { return postgres.NewUserRepo(s.DB) }

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// EnsureSchema creates the users table for the store's dialect.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.Dialect == DialectSQLite {
		return sqlite.EnsureSchema(ctx, s.DB)
	}
	return postgres.EnsureSchema(ctx, s.DB)
}

// Bootstrap prepares the schema while holding a distributed lock so several
// replicas starting together do not race on CREATE TABLE. The lock is taken
// in Redis when a client is given, otherwise as a Postgres advisory lock.
// SQLite stores are process-local and skip the lock.
func (s *Store) Bootstrap(ctx context.Context, rdb *redis.Client) error {
	if s.Dialect == DialectSQLite {
		return s.EnsureSchema(ctx)
	}

	lock := distlock.NewLock(rdb, s.DB, schemaLockKey, 30*time.Second)
	if err := distlock.AcquireWait(ctx, lock, 250*time.Millisecond); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			logger.Warn("schema lock release failed", "error", err)
		}
	}()

	return s.EnsureSchema(ctx)
}
