package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/vidtube-server/database"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use. pgxmock
// implements it too.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Connection struct {
	PgxPool
}

// NewConnection opens a pool, verifies it and applies pending migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{PgxPool: pool}, nil
}

// NewConnectionWithPool wraps an existing pool, used by tests.
func NewConnectionWithPool(pool PgxPool) *Connection {
	return &Connection{PgxPool: pool}
}

func (c *Connection) Close() error {
	if c.PgxPool != nil {
		c.PgxPool.Close()
	}
	return nil
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.PgxPool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return c.PgxPool.Ping(ctx)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == uniqueViolation
}
