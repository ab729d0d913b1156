// Package repository stores practice history directly in Postgres.
//
// A direct connection normally bypasses the row-level security that guards
// the REST path. When a user role is configured, every statement instead
// runs in a transaction that assumes that role and publishes the caller's id
// as JWT claims, so the table's policies decide exactly as they do for
// PostgREST requests.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxConns = 10

// Repository provides database access methods.
type Repository struct {
	pool     *pgxpool.Pool
	userRole string
}

type options struct {
	maxConns int32
	userRole string
}

// Option configures a Repository.
type Option func(*options)

// WithMaxConns caps the connection pool.
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithUserRole makes every statement run as role (for Supabase,
// "authenticated") with the caller's id in request.jwt.claims.
func WithUserRole(role string) Option {
	return func(o *options) {
		o.userRole = role
	}
}

// New connects to databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Repository, error) {
	o := options{maxConns: defaultMaxConns}
	for _, opt := range opts {
		opt(&o)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = o.maxConns
	config.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, userRole: o.userRole}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// asUser runs fn on behalf of userID. Without a user role fn gets the pool
// and must scope its own queries.
func (r *Repository) asUser(ctx context.Context, userID string, fn func(q querier) error) error {
	if r.userRole == "" {
		return fn(r.pool)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	claims, err := userClaims(userID, r.userRole)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claims', $1, true)", claims); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+pgx.Identifier{r.userRole}.Sanitize()); err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// userClaims renders the claims Supabase's auth.uid() reads.
func userClaims(userID, role string) (string, error) {
	b, err := json.Marshal(map[string]string{"sub": userID, "role": role})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
