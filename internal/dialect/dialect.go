// Package dialect is the registry of supported database engines. A Dialect
// bundles everything engine specific: connecting, introspecting the catalog
// and mapping raw column types.
package dialect

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/typemap"
)

// Name identifies a dialect.
type Name string

const (
	Postgres Name = "postgres"
	MySQL    Name = "mysql"
)

// Dialect is the capability set of one database engine.
type Dialect interface {
	Name() Name

	// DefaultSchema is the schema enums are named relative to when the
	// caller does not pick one.
	DefaultSchema(connString string) string

	MapType(dataType string, opts typemap.MapOptions) ast.Type

	// Connect opens a pool for connString. A nil cfg uses
	// database.DefaultConfig.
	Connect(ctx context.Context, connString string, cfg *database.Config) (database.DB, error)

	Introspect(ctx context.Context, db database.DB, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error)
}

var registry = map[Name]Dialect{
	Postgres: postgresDialect{},
	MySQL:    mysqlDialect{},
}

// schemes maps URL schemes to the dialect that serves them.
var schemes = map[string]Name{
	"postgres":   Postgres,
	"postgresql": Postgres,
	"mysql":      MySQL,
	"mysql2":     MySQL,
}

// Get returns the dialect registered under name.
func Get(name string) (Dialect, error) {
	d, ok := registry[Name(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown dialect %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Detect guesses the dialect from the scheme of connString. It never fails:
// anything it cannot parse or does not know yields ("", false).
func Detect(connString string) (Name, bool) {
	u, err := url.Parse(strings.TrimSpace(connString))
	if err != nil || u.Scheme == "" {
		return "", false
	}
	name, ok := schemes[strings.ToLower(u.Scheme)]
	return name, ok
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// resolveConfig returns cfg with DSN set to connString, or the defaults.
func resolveConfig(connString string, cfg *database.Config) *database.Config {
	if cfg == nil {
		return database.DefaultConfig(connString)
	}
	c := *cfg
	c.DSN = connString
	return &c
}
