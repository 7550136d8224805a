// Package database is the narrow connection surface the catalog
// introspectors run on. The postgres and mysql subpackages adapt pgx and
// database/sql to it and convert driver errors into *errs.Error, so an
// introspector can be driven by scripted rows in tests.
package database

import "context"

// Querier runs read-only catalog queries.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) (Row, error)
}

// DB is a pooled connection used for one generator run.
type DB interface {
	Querier

	// Ping checks that the server answers.
	Ping(ctx context.Context) error

	// Close drains the pool. It is safe to call more than once.
	Close()
}

// Rows iterates a result set. Close must be called even when Next was
// never reached.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Row is the single-row result of QueryRow.
type Row interface {
	Scan(dest ...any) error
}

// Each runs sql and calls scan once per row. It closes the result set and
// reports the first error from the query, from scan, or from iteration.
func Each(ctx context.Context, q Querier, sql string, args []any, scan func(Rows) error) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
