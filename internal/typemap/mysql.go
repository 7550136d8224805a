package typemap

import (
	"regexp"
	"strings"

	"github.com/koustreak/kyselygen/internal/ast"
)

// tinyintOnePattern matches the display width that marks a boolean column.
var tinyintOnePattern = regexp.MustCompile(`(?i)^\s*tinyint\s*\(\s*1\s*\)`)

// mysqlTypes is keyed by INFORMATION_SCHEMA.COLUMNS.DATA_TYPE.
var mysqlTypes = map[string]ast.Type{
	"tinyint":   ast.Number,
	"smallint":  ast.Number,
	"mediumint": ast.Number,
	"int":       ast.Number,
	"integer":   ast.Number,
	"year":      ast.Number,
	"float":     ast.Number,
	"double":    ast.Number,
	"real":      ast.Number,

	"bigint": bigintColumn,

	"decimal": decimalColumn,
	"numeric": decimalColumn,

	"char":       ast.String,
	"varchar":    ast.String,
	"text":       ast.String,
	"tinytext":   ast.String,
	"mediumtext": ast.String,
	"longtext":   ast.String,
	"set":        ast.String,
	"time":       ast.String,

	"bit":        ast.Buffer,
	"binary":     ast.Buffer,
	"varbinary":  ast.Buffer,
	"blob":       ast.Buffer,
	"tinyblob":   ast.Buffer,
	"mediumblob": ast.Buffer,
	"longblob":   ast.Buffer,

	"date":      dateColumn,
	"datetime":  dateColumn,
	"timestamp": dateColumn,

	"json": jsonValue,

	"point":              point,
	"linestring":         lineString,
	"polygon":            polygon,
	"geometry":           geometry,
	"geometrycollection": geometry,
	"multipoint":         geometry,
	"multilinestring":    geometry,
	"multipolygon":       geometry,

	"boolean": ast.Boolean,
	"bool":    ast.Boolean,
}

// MapMySQL maps a MySQL type name. tinyint(1) is boolean. An inline
// enum(...) becomes a union of its literals, or string when it cannot be
// parsed; set(...) is always string.
func MapMySQL(dataType string, opts MapOptions) ast.Type {
	return wrap(mysqlBase(dataType, opts.UnknownTypes), opts)
}

func mysqlBase(dataType string, unknown *UnknownTypes) ast.Type {
	if IsEnumType(dataType) {
		if values, ok := ParseEnumValues(dataType); ok {
			return ast.StringLiterals(values)
		}
		return ast.String
	}
	if IsSetType(dataType) {
		return ast.String
	}
	if tinyintOnePattern.MatchString(dataType) {
		return ast.Boolean
	}

	name := normalize(dataType)
	name = strings.TrimSuffix(name, " zerofill")
	name = strings.TrimSuffix(name, " unsigned")
	if base, ok := mysqlTypes[name]; ok {
		return base
	}
	unknown.Add(dataType)
	return ast.Unknown
}

