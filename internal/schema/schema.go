// Package schema holds the catalog metadata produced by introspection.
//
// DatabaseMetadata is the only value handed from a dialect's introspector to
// the transformer. Nothing in this package talks to a database.
package schema

import "context"

// ColumnMetadata describes a single column as declared in the catalog.
type ColumnMetadata struct {
	Name string

	// DataType is the raw dialect type name: int4, varchar, enum('a','b'), ...
	// For postgres arrays this is the element type and IsArray is set.
	DataType string

	// DataTypeSchema is the schema the type is defined in ("" when unknown).
	DataTypeSchema string

	IsNullable      bool
	IsAutoIncrement bool
	HasDefaultValue bool
	IsArray         bool

	// Comment is the column comment from the catalog ("" when absent).
	Comment string
}

// TableMetadata describes a table or view. Columns are in ordinal order.
type TableMetadata struct {
	Schema  string
	Name    string
	Columns []ColumnMetadata
	IsView  bool
}

// QualifiedName returns "schema.name".
func (t TableMetadata) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// EnumMetadata is an enumerated type. Values keep their declared order.
type EnumMetadata struct {
	Schema string
	Name   string
	Values []string
}

// Key returns the (schema, name) identity of the enum.
func (e EnumMetadata) Key() EnumKey {
	return EnumKey{Schema: e.Schema, Name: e.Name}
}

// InlineEnumName is the enum name given to a column declared with an inline
// enum(...) type, as MySQL does.
func InlineEnumName(table, column string) string {
	return table + "_" + column + "_enum"
}

// EnumKey identifies an enum across schemas.
type EnumKey struct {
	Schema string
	Name   string
}

// DatabaseMetadata is the full result of one introspection run.
type DatabaseMetadata struct {
	Tables []TableMetadata
	Enums  []EnumMetadata
}

// IntrospectOptions narrows what an introspector reads.
type IntrospectOptions struct {
	// Schemas to read. Empty means the dialect's default schema.
	Schemas []string
}

// Introspector reads catalog metadata from a live database.
type Introspector interface {
	Introspect(ctx context.Context, opts IntrospectOptions) (*DatabaseMetadata, error)
}

// AppendColumn adds col to the last table in tables when it is the same
// table as t, and otherwise starts t as a new table. Catalog rows ordered
// by table then column position fold into TableMetadata this way.
func AppendColumn(tables []TableMetadata, t TableMetadata, col ColumnMetadata) []TableMetadata {
	n := len(tables)
	if n == 0 || tables[n-1].Schema != t.Schema || tables[n-1].Name != t.Name {
		tables = append(tables, t)
		n++
	}
	tables[n-1].Columns = append(tables[n-1].Columns, col)
	return tables
}
