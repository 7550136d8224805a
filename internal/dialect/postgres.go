package dialect

import (
	"context"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/database/postgres"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/typemap"
)

type postgresDialect struct{}

func (postgresDialect) Name() Name { return Postgres }

func (postgresDialect) DefaultSchema(string) string { return postgres.DefaultSchema }

func (postgresDialect) MapType(dataType string, opts typemap.MapOptions) ast.Type {
	return typemap.MapPostgres(dataType, opts)
}

func (postgresDialect) Connect(ctx context.Context, connString string, cfg *database.Config) (database.DB, error) {
	d, err := postgres.New(ctx, resolveConfig(connString, cfg))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (postgresDialect) Introspect(ctx context.Context, db database.DB, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error) {
	return postgres.NewIntrospector(db).Introspect(ctx, opts)
}
