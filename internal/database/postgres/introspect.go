package postgres

import (
	"context"

	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/schema"
	"golang.org/x/sync/errgroup"
)

// DefaultSchema is the schema used when none is requested.
const DefaultSchema = "public"

const enumsQuery = `
	SELECT n.nspname   AS enum_schema,
	       t.typname   AS enum_name,
	       e.enumlabel AS enum_value
	FROM pg_catalog.pg_type t
	JOIN pg_catalog.pg_enum e      ON e.enumtypid = t.oid
	JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
	WHERE n.nspname = ANY($1)
	ORDER BY n.nspname, t.typname, e.enumsortorder`

const columnsQuery = `
	SELECT n.nspname                               AS table_schema,
	       c.relname                               AS table_name,
	       c.relkind IN ('v', 'm')                 AS is_view,
	       a.attname                               AS column_name,
	       COALESCE(et.typname, t.typname)         AS data_type,
	       COALESCE(etn.nspname, tn.nspname)       AS data_type_schema,
	       NOT a.attnotnull                        AS is_nullable,
	       (a.attidentity IN ('a', 'd')
	         OR COALESCE(pg_get_expr(d.adbin, d.adrelid), '') LIKE 'nextval(%')
	                                               AS is_auto_increment,
	       (d.adbin IS NOT NULL
	         OR a.attidentity IN ('a', 'd')
	         OR a.attgenerated <> '')              AS has_default,
	       t.typcategory = 'A'                     AS is_array,
	       COALESCE(col_description(c.oid, a.attnum), '') AS column_comment
	FROM pg_catalog.pg_attribute a
	JOIN pg_catalog.pg_class c      ON c.oid = a.attrelid
	JOIN pg_catalog.pg_namespace n  ON n.oid = c.relnamespace
	JOIN pg_catalog.pg_type t       ON t.oid = a.atttypid
	JOIN pg_catalog.pg_namespace tn ON tn.oid = t.typnamespace
	LEFT JOIN pg_catalog.pg_type et       ON et.oid = t.typelem AND t.typcategory = 'A'
	LEFT JOIN pg_catalog.pg_namespace etn ON etn.oid = et.typnamespace
	LEFT JOIN pg_catalog.pg_attrdef d     ON d.adrelid = a.attrelid AND d.adnum = a.attnum
	WHERE c.relkind IN ('r', 'p', 'v', 'm')
	  AND a.attnum > 0
	  AND NOT a.attisdropped
	  AND n.nspname = ANY($1)
	ORDER BY n.nspname, c.relname, a.attnum`

// Introspector reads tables, views and enums from the postgres catalog.
type Introspector struct {
	db database.DB
}

// NewIntrospector creates a postgres introspector on top of db.
func NewIntrospector(db database.DB) *Introspector {
	return &Introspector{db: db}
}

// Introspect queries enums and columns concurrently and assembles them.
func (i *Introspector) Introspect(ctx context.Context, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error) {
	schemas := opts.Schemas
	if len(schemas) == 0 {
		schemas = []string{DefaultSchema}
	}

	var (
		enums  []schema.EnumMetadata
		tables []schema.TableMetadata
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		enums, err = i.fetchEnums(egCtx, schemas)
		return err
	})
	eg.Go(func() error {
		var err error
		tables, err = i.fetchTables(egCtx, schemas)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &schema.DatabaseMetadata{Tables: tables, Enums: enums}, nil
}

func (i *Introspector) fetchEnums(ctx context.Context, schemas []string) ([]schema.EnumMetadata, error) {
	var enums []schema.EnumMetadata
	err := database.Each(ctx, i.db, enumsQuery, []any{schemas}, func(rows database.Rows) error {
		var nsp, name, value string
		if err := rows.Scan(&nsp, &name, &value); err != nil {
			return err
		}
		// rows arrive grouped by (schema, name)
		if n := len(enums); n > 0 && enums[n-1].Schema == nsp && enums[n-1].Name == name {
			enums[n-1].Values = append(enums[n-1].Values, value)
			return nil
		}
		enums = append(enums, schema.EnumMetadata{Schema: nsp, Name: name, Values: []string{value}})
		return nil
	})
	return enums, err
}

func (i *Introspector) fetchTables(ctx context.Context, schemas []string) ([]schema.TableMetadata, error) {
	var tables []schema.TableMetadata
	err := database.Each(ctx, i.db, columnsQuery, []any{schemas}, func(rows database.Rows) error {
		var (
			tableSchema, tableName string
			isView                 bool
			col                    schema.ColumnMetadata
		)
		if err := rows.Scan(
			&tableSchema,
			&tableName,
			&isView,
			&col.Name,
			&col.DataType,
			&col.DataTypeSchema,
			&col.IsNullable,
			&col.IsAutoIncrement,
			&col.HasDefaultValue,
			&col.IsArray,
			&col.Comment,
		); err != nil {
			return err
		}
		tables = schema.AppendColumn(tables, schema.TableMetadata{Schema: tableSchema, Name: tableName, IsView: isView}, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}
