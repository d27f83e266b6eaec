// Package db holds the persistence layer: typed queries over a pgx
// connection pool and the schema migration runner.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx the queries need, satisfied by both
// *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles all database operations.
type Queries struct {
	conn DBTX
}

func New(conn DBTX) *Queries {
	return &Queries{conn: conn}
}
