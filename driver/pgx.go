package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/postgres"
)

// Pgx is implemented by *pgx.Conn, pgx.Tx and pgxpool.Pool.
type Pgx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxConn runs builders on a native pgx connection, always rendering for
// PostgreSQL.
type PgxConn struct {
	conn   Pgx
	schema *predql.Schema
	stats  *Stats
	cfg    *config
}

// NewPgxConn wraps conn.
func NewPgxConn(conn Pgx, s *predql.Schema, opts ...Option) *PgxConn {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PgxConn{conn: conn, schema: s, stats: &Stats{}, cfg: &cfg}
}

func (c *PgxConn) render(b *predql.Builder) (*predql.QueryResult, error) {
	result, err := b.Render(c.schema, postgres.New())
	if err != nil {
		return nil, fmt.Errorf("driver: render: %w", err)
	}
	return result, nil
}

// Query renders b and runs it. The caller closes the rows.
func (c *PgxConn) Query(ctx context.Context, b *predql.Builder) (pgx.Rows, error) {
	result, err := c.render(b)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := c.conn.Query(ctx, result.SQL, result.Values...)
	c.cfg.record(ctx, c.stats, result.SQL, result.Values, start, err, true)
	if err != nil {
		return nil, fmt.Errorf("driver: query: %w", err)
	}
	return rows, nil
}

// QueryRow renders b and runs it as a single-row query.
func (c *PgxConn) QueryRow(ctx context.Context, b *predql.Builder) (pgx.Row, error) {
	result, err := c.render(b)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	row := c.conn.QueryRow(ctx, result.SQL, result.Values...)
	c.cfg.record(ctx, c.stats, result.SQL, result.Values, start, nil, true)
	return row, nil
}

// Exec renders b and runs it as a statement.
func (c *PgxConn) Exec(ctx context.Context, b *predql.Builder) (pgconn.CommandTag, error) {
	result, err := c.render(b)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := c.conn.Exec(ctx, result.SQL, result.Values...)
	c.cfg.record(ctx, c.stats, result.SQL, result.Values, start, err, false)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("driver: exec: %w", err)
	}
	return tag, nil
}

// All renders b and collects every row into a map keyed by column name.
func (c *PgxConn) All(ctx context.Context, b *predql.Builder) ([]map[string]any, error) {
	rows, err := c.Query(ctx, b)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("driver: collect: %w", err)
	}
	return out, nil
}

// Stats returns the statement counters.
func (c *PgxConn) Stats() *Stats {
	return c.stats
}
