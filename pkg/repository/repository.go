// Package repository holds the generic SQL helpers shared by the domain stores:
// transactions, typed row scanning, and per-row inserts.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier runs row-returning statements. *sql.DB, *sql.Tx, and *sql.Conn satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor runs statements that return no rows.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner is the subset of *sql.Row and *sql.Rows used by ScanFunc.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one row into a domain value.
type ScanFunc[T any] func(Scanner) (T, error)

// ArgsFunc maps an input and its one-based position to statement arguments.
type ArgsFunc[In any] func(pos int, in In) ([]any, error)

// WithTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// QueryOne scans the single row returned by query.
// A missing row surfaces as sql.ErrNoRows for MapError.
func QueryOne[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(q.QueryRowContext(ctx, query, args...))
}

// QueryMany scans every row returned by query. No rows yields an empty, non-nil slice.
func QueryMany[T any](ctx context.Context, q Querier, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// InsertEach runs a RETURNING insert once per item and collects the scanned
// rows in input order. Run it inside WithTx so a failed row discards the rest.
func InsertEach[In, T any](
	ctx context.Context,
	q Querier,
	query string,
	items []In,
	args ArgsFunc[In],
	scan ScanFunc[T],
) ([]T, error) {
	results := make([]T, 0, len(items))
	for i, item := range items {
		a, err := args(i+1, item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		row, err := QueryOne(ctx, q, query, a, scan)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		results = append(results, row)
	}
	return results, nil
}

// ExecExpectOne runs a statement that must touch exactly one row.
// Zero affected rows is reported as sql.ErrNoRows.
func ExecExpectOne(ctx context.Context, e Executor, query string, args ...any) error {
	result, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
