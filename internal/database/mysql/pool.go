package mysql

import (
	"database/sql"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"
)

const (
	defaultMaxOpenConns = 4
	defaultConnTimeout  = 10 * time.Second
	defaultPort         = "3306"
)

// ParseURL turns a mysql:// (or mysql2://) URL into a driver config.
// Strings without a URL scheme are parsed as native DSNs.
func ParseURL(raw string) (*mysql.Config, error) {
	if !strings.Contains(raw, "://") {
		cfg, err := mysql.ParseDSN(raw)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql DSN", err)
		}
		return cfg, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql URL", err)
	}
	if u.Scheme != "mysql" && u.Scheme != "mysql2" {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported mysql URL scheme %q", u.Scheme)
	}

	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	host, port := u.Hostname(), u.Port()
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = defaultPort
	}
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = strings.TrimPrefix(u.Path, "/")

	for key, vals := range u.Query() {
		if len(vals) == 0 {
			continue
		}
		// driver options such as parseTime are re-read from the DSN by sql.Open
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[key] = vals[len(vals)-1]
	}
	if tls, ok := cfg.Params["tls"]; ok {
		cfg.TLSConfig = tls
		delete(cfg.Params, "tls")
	}

	return cfg, nil
}

// FormatDSN converts a connection string into a go-sql-driver DSN.
func FormatDSN(raw string) (string, error) {
	cfg, err := ParseURL(raw)
	if err != nil {
		return "", err
	}
	return cfg.FormatDSN(), nil
}

// DatabaseName returns the database named in the connection string, or "".
func DatabaseName(raw string) string {
	cfg, err := ParseURL(raw)
	if err != nil {
		return ""
	}
	return cfg.DBName
}

// configurePool mirrors the pgx pool limits onto database/sql.
func configurePool(db *sql.DB, cfg *database.Config) {
	open := defaultMaxOpenConns
	if cfg.MaxConns > 0 {
		open = int(cfg.MaxConns)
	}
	db.SetMaxOpenConns(open)
	db.SetMaxIdleConns(int(cfg.MinConns))
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}
}

func dialTimeout(cfg *database.Config) time.Duration {
	if cfg.ConnectTimeout <= 0 {
		return defaultConnTimeout
	}
	return cfg.ConnectTimeout
}
