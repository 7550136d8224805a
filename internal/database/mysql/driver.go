package mysql

import (
	"context"
	"database/sql"

	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
)

// Driver serves INFORMATION_SCHEMA queries from a database/sql pool. Safe
// for concurrent use.
type Driver struct {
	db *sql.DB
}

var _ database.DB = (*Driver)(nil)

// New opens a pool for cfg and pings it within the connect timeout.
// cfg.DSN may be a mysql:// URL or a native go-sql-driver DSN.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	dsn, err := FormatDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql DSN", err)
	}
	configurePool(db, cfg)

	ctx, cancel := context.WithTimeout(ctx, dialTimeout(cfg))
	defer cancel()

	d := &Driver{db: db}
	if err := d.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Driver) Ping(ctx context.Context) error {
	return mapError(d.db.PingContext(ctx), "ping failed")
}

func (d *Driver) Close() { _ = d.db.Close() }

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return resultSet{rows}, nil
}

// QueryRow defers errors to Scan, as database/sql does.
func (d *Driver) QueryRow(ctx context.Context, query string, args ...any) (database.Row, error) {
	return singleRow{d.db.QueryRowContext(ctx, query, args...)}, nil
}

type resultSet struct{ rows *sql.Rows }

func (r resultSet) Next() bool             { return r.rows.Next() }
func (r resultSet) Close()                 { _ = r.rows.Close() }
func (r resultSet) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...), "scan failed") }
func (r resultSet) Err() error             { return mapError(r.rows.Err(), "row iteration failed") }

type singleRow struct{ row *sql.Row }

func (r singleRow) Scan(dest ...any) error { return mapError(r.row.Scan(dest...), "scan failed") }
