// Package db provides read-only PostgreSQL access to the jobs table.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrMissingDatabaseURL is returned by Connect when no connection string is configured
var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable not set")

// querier is the subset of pgxpool.Pool used by the accessor
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsCache stores aggregated job stats between queries
type StatsCache interface {
	GetStats(ctx context.Context) (*JobStats, bool)
	SetStats(ctx context.Context, stats JobStats)
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool   *pgxpool.Pool
	q      querier
	logger *zap.Logger
	cache  StatsCache
}

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger used for degraded query failures
func WithLogger(logger *zap.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithStatsCache enables caching of Stats results
func WithStatsCache(cache StatsCache) Option {
	return func(db *DB) {
		db.cache = cache
	}
}

// Connect establishes a connection pool to the database.
// A missing URL is a configuration error and is returned unchanged.
func Connect(ctx context.Context, databaseURL string, opts ...Option) (*DB, error) {
	if databaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := newDB(pool, opts...)
	db.pool = pool
	return db, nil
}

func newDB(q querier, opts ...Option) *DB {
	db := &DB{q: q, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("database not connected")
	}
	return db.pool.Ping(ctx)
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
