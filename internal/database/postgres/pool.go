package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"
)

// ApplicationName is reported to the server in pg_stat_activity.
const ApplicationName = "kysely-gen"

const (
	fallbackMaxConns       = 4
	fallbackConnectTimeout = 10 * time.Second
)

// poolConfig parses cfg.DSN and layers the pool settings on top. Sessions
// are opened read-only: introspection never writes.
func poolConfig(cfg *database.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid postgres connection string", err)
	}

	pc.MaxConns = fallbackMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	cc := pc.ConnConfig
	cc.ConnectTimeout = fallbackConnectTimeout
	if cfg.ConnectTimeout > 0 {
		cc.ConnectTimeout = cfg.ConnectTimeout
	}
	if _, set := cc.RuntimeParams["application_name"]; !set {
		cc.RuntimeParams["application_name"] = ApplicationName
	}
	cc.RuntimeParams["default_transaction_read_only"] = "on"

	return pc, nil
}
