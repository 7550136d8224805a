package mysql

import (
	"context"
	"strings"

	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/typemap"
	"golang.org/x/sync/errgroup"
)

const columnsQuery = `
	SELECT c.TABLE_SCHEMA,
	       c.TABLE_NAME,
	       c.COLUMN_NAME,
	       c.DATA_TYPE,
	       c.COLUMN_TYPE,
	       c.IS_NULLABLE,
	       c.COLUMN_DEFAULT,
	       c.EXTRA,
	       c.COLUMN_COMMENT
	FROM INFORMATION_SCHEMA.COLUMNS c
	INNER JOIN INFORMATION_SCHEMA.TABLES t
	        ON c.TABLE_SCHEMA = t.TABLE_SCHEMA
	       AND c.TABLE_NAME   = t.TABLE_NAME
	WHERE t.TABLE_TYPE = ?
	  AND c.TABLE_SCHEMA IN (%s)
	ORDER BY c.TABLE_SCHEMA, c.TABLE_NAME, c.ORDINAL_POSITION`

const (
	tableTypeBase = "BASE TABLE"
	tableTypeView = "VIEW"
)

// Introspector reads tables, views and inline enums from INFORMATION_SCHEMA.
type Introspector struct {
	db database.DB
}

// NewIntrospector creates a MySQL introspector on top of db.
func NewIntrospector(db database.DB) *Introspector {
	return &Introspector{db: db}
}

// Introspect reads base tables and views concurrently. Tables come first,
// then views. Enums are derived from enum(...) column types and named
// "<table>_<column>_enum".
func (m *Introspector) Introspect(ctx context.Context, opts schema.IntrospectOptions) (*schema.DatabaseMetadata, error) {
	schemas := opts.Schemas
	if len(schemas) == 0 {
		current, err := m.currentDatabase(ctx)
		if err != nil {
			return nil, err
		}
		schemas = []string{current}
	}

	var base, views []schema.TableMetadata

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		base, err = m.fetchTables(egCtx, schemas, tableTypeBase)
		return err
	})
	eg.Go(func() error {
		var err error
		views, err = m.fetchTables(egCtx, schemas, tableTypeView)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	tables := append(base, views...)
	return &schema.DatabaseMetadata{
		Tables: tables,
		Enums:  extractEnums(tables),
	}, nil
}

func (m *Introspector) currentDatabase(ctx context.Context) (string, error) {
	row, err := m.db.QueryRow(ctx, "SELECT DATABASE()")
	if err != nil {
		return "", err
	}
	var name *string
	if err := row.Scan(&name); err != nil {
		return "", err
	}
	if name == nil || *name == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "no database selected: name one in the connection URL or pass --schema")
	}
	return *name, nil
}

func (m *Introspector) fetchTables(ctx context.Context, schemas []string, tableType string) ([]schema.TableMetadata, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(schemas)), ", ")
	query := strings.Replace(columnsQuery, "%s", placeholders, 1)

	args := make([]any, 0, len(schemas)+1)
	args = append(args, tableType)
	for _, s := range schemas {
		args = append(args, s)
	}

	isView := tableType == tableTypeView
	var tables []schema.TableMetadata
	err := database.Each(ctx, m.db, query, args, func(rows database.Rows) error {
		var (
			tableSchema, tableName, columnName string
			dataType, columnType, isNullable   string
			extra                              string
			columnDefault, comment             *string
		)
		if err := rows.Scan(
			&tableSchema,
			&tableName,
			&columnName,
			&dataType,
			&columnType,
			&isNullable,
			&columnDefault,
			&extra,
			&comment,
		); err != nil {
			return err
		}

		autoIncrement := strings.Contains(strings.ToLower(extra), "auto_increment")
		col := schema.ColumnMetadata{
			Name:            columnName,
			DataType:        normalizeDataType(dataType, columnType),
			DataTypeSchema:  tableSchema,
			IsNullable:      isNullable == "YES",
			IsAutoIncrement: autoIncrement && !isView,
			HasDefaultValue: columnDefault != nil || autoIncrement,
		}
		if comment != nil {
			col.Comment = *comment
		}
		tables = schema.AppendColumn(tables, schema.TableMetadata{Schema: tableSchema, Name: tableName, IsView: isView}, col)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// normalizeDataType folds DATA_TYPE and COLUMN_TYPE into the raw type the
// mapper sees: tinyint(1) becomes boolean, enum(...) keeps its value list.
func normalizeDataType(dataType, columnType string) string {
	lower := strings.ToLower(dataType)
	if lower == "tinyint" && strings.EqualFold(columnType, "tinyint(1)") {
		return "boolean"
	}
	if typemap.IsEnumType(columnType) {
		return columnType
	}
	return lower
}

func extractEnums(tables []schema.TableMetadata) []schema.EnumMetadata {
	var enums []schema.EnumMetadata
	seen := make(map[schema.EnumKey]bool)

	for _, table := range tables {
		for _, col := range table.Columns {
			values, ok := typemap.ParseEnumValues(col.DataType)
			if !ok {
				continue
			}
			e := schema.EnumMetadata{
				Schema: table.Schema,
				Name:   schema.InlineEnumName(table.Name, col.Name),
				Values: values,
			}
			if seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			enums = append(enums, e)
		}
	}
	return enums
}
