// Package transform turns introspected catalog metadata into the declaration
// tree of a Kysely database type file.
//
// Transform is pure: it performs no I/O and keeps no state between calls.
// Each call owns one unknown-types collector.
package transform

import (
	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/typemap"
)

// DefaultSchema is used for enum naming when Options.DefaultSchema is empty.
const DefaultSchema = "public"

// WarningUnknownType is the Warning.Type of an unmapped raw type.
const WarningUnknownType = "unknown_type"

// reservedNames are declared by the transform itself and never used for an
// enum alias or a table interface.
var reservedNames = []string{
	"ColumnType", "Generated", "DB",
	"JsonPrimitive", "JsonArray", "JsonObject", "JsonValue",
	"Point", "LineString", "Polygon", "Geometry",
}

// Options controls naming and table selection.
type Options struct {
	// CamelCase renames column and table properties to camelCase.
	CamelCase bool

	// IncludePattern and ExcludePattern are globs over "schema.table".
	IncludePattern []string
	ExcludePattern []string

	// DefaultSchema is the schema whose enums keep their bare names.
	DefaultSchema string

	// HelperTypes declares the JSON and geometry aliases the mappers refer to.
	HelperTypes bool
}

func (o Options) defaultSchema() string {
	if o.DefaultSchema == "" {
		return DefaultSchema
	}
	return o.DefaultSchema
}

// Warning reports a recoverable problem found during the transform.
type Warning struct {
	Type   string `json:"type"`
	PgType string `json:"pgType"`
}

// Result is the output of Transform.
type Result struct {
	Program  *ast.Program
	Warnings []Warning

	// Tables and Enums count the emitted interfaces and enum aliases.
	Tables int
	Enums  int
}

// Transform builds the declaration tree for md. Declarations come in a fixed
// order: the kysely import, Generated<T>, helper aliases (when enabled), one
// alias per enum, one interface per selected table and finally DB.
func Transform(md *schema.DatabaseMetadata, mapper typemap.Mapper, opts Options) Result {
	if md == nil {
		md = &schema.DatabaseMetadata{}
	}
	defaultSchema := opts.defaultSchema()

	resolver := NewEnumResolver(md.Enums, defaultSchema)
	taken := make(map[string]bool, len(md.Enums))
	enumDecls := make([]ast.Declaration, 0, len(md.Enums))
	emitted := make(map[schema.EnumKey]bool, len(md.Enums))
	for _, e := range md.Enums {
		if emitted[e.Key()] {
			continue
		}
		emitted[e.Key()] = true
		name := resolver.MustResolve(e.Schema, e.Name)
		taken[name] = true
		enumDecls = append(enumDecls, enumDeclaration(e, name))
	}

	for _, reserved := range reservedNames {
		taken[reserved] = true
	}

	tables := Filter{Include: opts.IncludePattern, Exclude: opts.ExcludePattern}.Apply(md.Tables)
	names := nameTables(tables, opts.CamelCase, taken)

	unknown := typemap.NewUnknownTypes()
	builder := &tableBuilder{
		mapper:        mapper,
		enums:         resolver,
		unknown:       unknown,
		defaultSchema: defaultSchema,
		camelCase:     opts.CamelCase,
	}

	interfaces := make([]ast.Interface, len(tables))
	dbProps := make([]ast.Property, len(tables))
	for i, t := range tables {
		interfaces[i] = builder.buildInterface(t, names[i].Interface)
		dbProps[i] = ast.Property{Name: names[i].Property, Type: ast.Reference{Name: names[i].Interface}}
	}

	decls := []ast.Declaration{kyselyImport, generatedAlias}
	if opts.HelperTypes {
		decls = append(decls, requiredHelpers(interfaces)...)
	}
	decls = append(decls, enumDecls...)
	for _, iface := range interfaces {
		decls = append(decls, iface)
	}
	decls = append(decls, ast.Interface{Name: "DB", Properties: dbProps, Exported: true})

	var warnings []Warning
	for _, raw := range unknown.Values() {
		warnings = append(warnings, Warning{Type: WarningUnknownType, PgType: raw})
	}

	return Result{
		Program:  &ast.Program{Declarations: decls},
		Warnings: warnings,
		Tables:   len(tables),
		Enums:    len(enumDecls),
	}
}
