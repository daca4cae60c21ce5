package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of *sql.DB used by the database/sql backends.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ExecSchema runs DDL statements in order and wraps the first failure in
// *SchemaError.
func ExecSchema(ctx context.Context, q Querier, table string, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return &SchemaError{Table: table, Err: err}
		}
	}
	return nil
}

// ExecInsert runs a prepared multi-row INSERT and returns rows affected.
// Failures are *WriteError sized to the batch.
func ExecInsert(ctx context.Context, q Querier, query string, args []any, nrows int) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &WriteError{Rows: nrows, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		// The statement succeeded; trust the batch size.
		return int64(nrows), nil
	}
	return n, nil
}

// QuerySummary runs countSQL and latestSQL (which must select every column
// of the tweet table in table order) and assembles a Summary.
func QuerySummary(ctx context.Context, q Querier, countSQL, latestSQL string, args ...any) (Summary, error) {
	var s Summary
	if err := q.QueryRowContext(ctx, countSQL).Scan(&s.Count); err != nil {
		return Summary{}, fmt.Errorf("storage: count: %w", err)
	}

	rows, err := q.QueryContext(ctx, latestSQL, args...)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: latest: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec     StoredRecord
			created any
		)
		if err := rows.Scan(ScanDest(&rec, &created)...); err != nil {
			return Summary{}, fmt.Errorf("storage: scan: %w", err)
		}
		if rec.CreatedAt, err = AsTime(created); err != nil {
			return Summary{}, err
		}
		s.Latest = append(s.Latest, rec)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("storage: latest: %w", err)
	}
	return s, nil
}

// FlattenRows concatenates per-record driver values into one argument list.
func FlattenRows(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	out := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
