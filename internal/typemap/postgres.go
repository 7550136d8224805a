package typemap

import (
	"strings"

	"github.com/koustreak/kyselygen/internal/ast"
)

// postgresTypes is keyed by pg_type.typname and the SQL-standard spellings.
var postgresTypes = map[string]ast.Type{
	"int2":             ast.Number,
	"int4":             ast.Number,
	"smallint":         ast.Number,
	"integer":          ast.Number,
	"int":              ast.Number,
	"oid":              ast.Number,
	"float4":           ast.Number,
	"float8":           ast.Number,
	"real":             ast.Number,
	"double precision": ast.Number,

	"int8":   bigintColumn,
	"bigint": bigintColumn,

	"numeric": decimalColumn,
	"decimal": decimalColumn,

	"varchar":           ast.String,
	"character varying": ast.String,
	"char":              ast.String,
	"bpchar":            ast.String,
	"character":         ast.String,
	"text":              ast.String,
	"citext":            ast.String,
	"name":              ast.String,
	"uuid":              ast.String,
	"money":             ast.String,
	"inet":              ast.String,
	"cidr":              ast.String,
	"macaddr":           ast.String,
	"macaddr8":          ast.String,
	"xml":               ast.String,
	"tsvector":          ast.String,
	"tsquery":           ast.String,
	"bit":               ast.String,
	"varbit":            ast.String,
	"bit varying":       ast.String,
	"interval":          ast.String,

	"bool":    ast.Boolean,
	"boolean": ast.Boolean,

	"date":                        dateColumn,
	"timestamp":                   dateColumn,
	"timestamptz":                 dateColumn,
	"timestamp with time zone":    dateColumn,
	"timestamp without time zone": dateColumn,

	"time":                   ast.String,
	"timetz":                 ast.String,
	"time with time zone":    ast.String,
	"time without time zone": ast.String,

	"json":  jsonValue,
	"jsonb": jsonValue,

	"bytea": ast.Buffer,

	"point":    point,
	"path":     lineString,
	"polygon":  polygon,
	"line":     geometry,
	"lseg":     geometry,
	"box":      geometry,
	"circle":   geometry,
	"geometry": geometry,
}

// MapPostgres maps a postgres type name. Array element names with a leading
// underscore (_int4) and a trailing [] both mark the column as an array.
func MapPostgres(dataType string, opts MapOptions) ast.Type {
	name := normalize(dataType)
	if strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(strings.TrimSuffix(name, "[]"))
		opts.IsArray = true
	}
	if strings.HasPrefix(name, "_") {
		name = name[1:]
		opts.IsArray = true
	}

	base, ok := postgresTypes[name]
	if !ok {
		opts.UnknownTypes.Add(dataType)
		base = ast.Unknown
	}
	return wrap(base, opts)
}
