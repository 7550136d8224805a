package transform

import (
	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/strutil"
	"github.com/koustreak/kyselygen/internal/typemap"
)

// tableName is the pair of names one table contributes to the output.
type tableName struct {
	Interface string // interface declaration name
	Property  string // key in the DB interface
}

// nameTables picks interface and DB property names for the tables.
//
// Interface names are PascalCase(Singularize(table)). Tables whose names
// collide are all prefixed with PascalCase(schema); a name already taken by
// an enum alias gets a "Table" suffix. DB properties are the table names,
// qualified as "schema.table" when two schemas share a table name.
func nameTables(tables []schema.TableMetadata, camelCase bool, taken map[string]bool) []tableName {
	ifaceCount := make(map[string]int, len(tables))
	propCount := make(map[string]int, len(tables))
	for _, t := range tables {
		ifaceCount[baseInterfaceName(t)]++
		propCount[t.Name]++
	}

	names := make([]tableName, len(tables))
	for i, t := range tables {
		iface := baseInterfaceName(t)
		if ifaceCount[iface] > 1 {
			iface = strutil.ToPascalCase(t.Schema) + iface
		}
		if taken[iface] {
			iface += "Table"
		}

		prop := t.Name
		if camelCase {
			prop = strutil.ToCamelCase(prop)
		}
		if propCount[t.Name] > 1 {
			prop = t.Schema + "." + prop
		}
		names[i] = tableName{Interface: iface, Property: prop}
	}
	return names
}

func baseInterfaceName(t schema.TableMetadata) string {
	return strutil.ToPascalCase(strutil.Singularize(t.Name))
}

// tableBuilder turns tables into interfaces. It carries the per-run state:
// the enum resolver and the unknown-types collector.
type tableBuilder struct {
	mapper        typemap.Mapper
	enums         *EnumResolver
	unknown       *typemap.UnknownTypes
	defaultSchema string
	camelCase     bool
}

func (b *tableBuilder) buildInterface(t schema.TableMetadata, name string) ast.Interface {
	props := make([]ast.Property, 0, len(t.Columns))
	for _, col := range t.Columns {
		props = append(props, b.buildProperty(t, col))
	}
	return ast.Interface{Name: name, Properties: props, Exported: true}
}

func (b *tableBuilder) buildProperty(t schema.TableMetadata, col schema.ColumnMetadata) ast.Property {
	name := col.Name
	if b.camelCase {
		name = strutil.ToCamelCase(name)
	}

	typ := b.columnType(t, col)
	if col.IsAutoIncrement || col.HasDefaultValue {
		typ = ast.Generic{Name: "Generated", TypeArguments: []ast.Type{typ}}
	}

	return ast.Property{
		Name:    name,
		Type:    typ,
		Comment: col.Comment,
	}
}

// columnType resolves the column to an enum reference when its type names a
// known enum and falls back to the dialect mapper otherwise.
func (b *tableBuilder) columnType(t schema.TableMetadata, col schema.ColumnMetadata) ast.Type {
	key := b.enumKey(t, col)
	if b.enums.Has(key.Schema, key.Name) {
		var typ ast.Type = ast.Reference{Name: b.enums.MustResolve(key.Schema, key.Name)}
		if col.IsArray {
			typ = ast.Array{Element: typ}
		}
		if col.IsNullable {
			typ = ast.Nullable(typ)
		}
		return typ
	}

	return b.mapper(col.DataType, typemap.MapOptions{
		IsNullable:   col.IsNullable,
		IsArray:      col.IsArray,
		UnknownTypes: b.unknown,
	})
}

func (b *tableBuilder) enumKey(t schema.TableMetadata, col schema.ColumnMetadata) schema.EnumKey {
	if typemap.IsEnumType(col.DataType) {
		return schema.EnumKey{Schema: t.Schema, Name: schema.InlineEnumName(t.Name, col.Name)}
	}
	typeSchema := col.DataTypeSchema
	if typeSchema == "" {
		typeSchema = b.defaultSchema
	}
	return schema.EnumKey{Schema: typeSchema, Name: col.DataType}
}
