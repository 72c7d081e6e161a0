// Package driver runs rendered statements through database/sql.
package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/predql"
)

// ExecQuerier is the subset of *sql.DB and *sql.Tx a runner needs.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runner renders builders and runs them on an ExecQuerier.
type runner struct {
	conn    ExecQuerier
	dialect predql.Dialect
	schema  *predql.Schema
	stats   *Stats
	cfg     *config
}

// Render renders b for this connection's dialect and schema.
func (r *runner) Render(b *predql.Builder) (*predql.QueryResult, error) {
	result, err := b.Render(r.schema, r.dialect)
	if err != nil {
		return nil, fmt.Errorf("driver: render: %w", err)
	}
	return result, nil
}

// Query renders b and runs it as a query. The caller closes the rows.
func (r *runner) Query(ctx context.Context, b *predql.Builder) (*sql.Rows, error) {
	result, err := r.Render(b)
	if err != nil {
		return nil, err
	}
	return r.QueryRaw(ctx, result.SQL, result.Values...)
}

// QueryRaw runs already rendered SQL as a query.
func (r *runner) QueryRaw(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, query, args...)
	r.cfg.record(ctx, r.stats, query, args, start, err, true)
	if err != nil {
		return nil, fmt.Errorf("driver: query: %w", err)
	}
	return rows, nil
}

// QueryRow renders b and runs it as a single-row query. Render failures are
// returned directly; query failures surface from Row.Scan.
func (r *runner) QueryRow(ctx context.Context, b *predql.Builder) (*sql.Row, error) {
	result, err := r.Render(b)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	row := r.conn.QueryRowContext(ctx, result.SQL, result.Values...)
	r.cfg.record(ctx, r.stats, result.SQL, result.Values, start, row.Err(), true)
	return row, nil
}

// Exec renders b and runs it as a statement.
func (r *runner) Exec(ctx context.Context, b *predql.Builder) (sql.Result, error) {
	result, err := r.Render(b)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := r.conn.ExecContext(ctx, result.SQL, result.Values...)
	r.cfg.record(ctx, r.stats, result.SQL, result.Values, start, err, false)
	if err != nil {
		return nil, fmt.Errorf("driver: exec: %w", err)
	}
	return res, nil
}

// All renders b, runs it and scans every row into a map.
func (r *runner) All(ctx context.Context, b *predql.Builder) ([]map[string]any, error) {
	rows, err := r.Query(ctx, b)
	if err != nil {
		return nil, err
	}
	return ScanMaps(rows)
}

// Dialect returns the dialect statements are rendered for.
func (r *runner) Dialect() predql.Dialect {
	return r.dialect
}

// DB is a database handle bound to a dialect and a schema.
type DB struct {
	runner
	db *sql.DB
}

// Open opens a database for the named backend. See Lookup for names.
func Open(backend, dsn string, s *predql.Schema, opts ...Option) (*DB, error) {
	b, err := Lookup(backend)
	if err != nil {
		return nil, err
	}
	if b.validate != nil {
		if err := b.validate(dsn); err != nil {
			return nil, fmt.Errorf("driver: invalid %s DSN: %w", b.Name, err)
		}
	}
	db, err := sql.Open(b.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", b.Name, err)
	}
	return newDB(db, b.Dialect, s, opts), nil
}

// OpenDB wraps an existing *sql.DB.
func OpenDB(backend string, db *sql.DB, s *predql.Schema, opts ...Option) (*DB, error) {
	b, err := Lookup(backend)
	if err != nil {
		return nil, err
	}
	return newDB(db, b.Dialect, s, opts), nil
}

func newDB(db *sql.DB, d predql.Dialect, s *predql.Schema, opts []Option) *DB {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &DB{
		runner: runner{conn: db, dialect: d, schema: s, stats: &Stats{}, cfg: &cfg},
		db:     db,
	}
}

// SQL returns the underlying *sql.DB.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Stats returns the statement counters shared by the DB and its transactions.
func (d *DB) Stats() *Stats {
	return d.stats
}

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Tx is a transaction bound to the DB's dialect and schema.
type Tx struct {
	runner
	tx *sql.Tx
}

// Begin starts a transaction.
func (d *DB) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("driver: begin: %w", err)
	}
	r := d.runner
	r.conn = tx
	return &Tx{runner: r, tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Tx runs fn in a transaction. It commits when fn returns nil and rolls back
// when fn returns an error or panics.
func (d *DB) Tx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.Begin(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, fmt.Errorf("driver: rollback: %w", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("driver: commit: %w", err)
	}
	return nil
}
