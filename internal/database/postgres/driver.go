package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koustreak/kyselygen/internal/database"
)

// Driver serves catalog queries from a pgx pool. Safe for concurrent use.
type Driver struct {
	pool *pgxpool.Pool
}

var _ database.DB = (*Driver)(nil)

// New opens a pool for cfg and pings it once. On failure no pool is left
// open.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, mapError(err, "failed to create connection pool")
	}

	d := &Driver{pool: pool}
	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return d, nil
}

func (d *Driver) Ping(ctx context.Context) error {
	return mapError(d.pool.Ping(ctx), "ping failed")
}

func (d *Driver) Close() { d.pool.Close() }

func (d *Driver) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return resultSet{rows}, nil
}

// QueryRow never fails itself; pgx reports errors from Scan.
func (d *Driver) QueryRow(ctx context.Context, sql string, args ...any) (database.Row, error) {
	return singleRow{d.pool.QueryRow(ctx, sql, args...)}, nil
}

type resultSet struct{ pgx.Rows }

func (r resultSet) Scan(dest ...any) error { return mapError(r.Rows.Scan(dest...), "scan failed") }
func (r resultSet) Err() error             { return mapError(r.Rows.Err(), "row iteration failed") }

type singleRow struct{ pgx.Row }

func (r singleRow) Scan(dest ...any) error { return mapError(r.Row.Scan(dest...), "scan failed") }
