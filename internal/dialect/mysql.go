package dialect

import (
	"context"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/database/mysql"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/typemap"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() Name { return MySQL }

// DefaultSchema is the database named in the connection string; MySQL has
// no schema level below it.
func (mysqlDialect) DefaultSchema(connString string) string {
	return mysql.DatabaseName(connString)
}

func (mysqlDialect) MapType(dataType string, opts typemap.MapOptions) ast.Type {
	return typemap.MapMySQL(dataType, opts)
}

func (mysqlDialect) Connect(ctx context.Context, connString string, cfg *database.Config) (database.DB, error) {
	d, err := mysql.New(ctx, resolveConfig(connString, cfg))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (mysqlDialect) Introspect(ctx context.Context, db database.DB, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error) {
	return mysql.NewIntrospector(db).Introspect(ctx, opts)
}
