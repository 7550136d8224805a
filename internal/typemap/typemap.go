// Package typemap maps raw catalog type names to TypeScript type nodes.
//
// Every mapper is a pure function of its input and MapOptions. Raw types
// nobody recognises map to unknown and are recorded in the UnknownTypes
// collector passed by the caller.
package typemap

import (
	"regexp"
	"strings"

	"github.com/koustreak/kyselygen/internal/ast"
)

// Mapper maps one raw column type to a type node.
type Mapper func(dataType string, opts MapOptions) ast.Type

// MapOptions carries the column flags that shape the mapped type.
type MapOptions struct {
	IsNullable bool
	IsArray    bool

	// UnknownTypes collects unmapped raw types. May be nil.
	UnknownTypes *UnknownTypes
}

// UnknownTypes is an insertion-ordered set of raw type names. It belongs to
// one transform run and is not safe for concurrent use.
type UnknownTypes struct {
	seen  map[string]struct{}
	order []string
}

// NewUnknownTypes returns an empty collector.
func NewUnknownTypes() *UnknownTypes {
	return &UnknownTypes{seen: make(map[string]struct{})}
}

// Add records raw once. Calling Add on a nil collector does nothing.
func (u *UnknownTypes) Add(raw string) {
	if u == nil {
		return
	}
	if u.seen == nil {
		u.seen = make(map[string]struct{})
	}
	if _, ok := u.seen[raw]; ok {
		return
	}
	u.seen[raw] = struct{}{}
	u.order = append(u.order, raw)
}

// Values returns the recorded types in first-seen order.
func (u *UnknownTypes) Values() []string {
	if u == nil {
		return nil
	}
	return append([]string(nil), u.order...)
}

// Len returns the number of distinct recorded types.
func (u *UnknownTypes) Len() int {
	if u == nil {
		return 0
	}
	return len(u.order)
}

// --- shared shapes ---

var (
	bigintColumn = ast.ColumnType(
		ast.String,
		ast.Union{Types: []ast.Type{ast.String, ast.Number, ast.BigInt}},
		ast.Union{Types: []ast.Type{ast.String, ast.Number, ast.BigInt}},
	)
	decimalColumn = ast.ColumnType(
		ast.String,
		ast.Union{Types: []ast.Type{ast.Number, ast.String}},
		ast.Union{Types: []ast.Type{ast.Number, ast.String}},
	)
	dateColumn = ast.ColumnType(
		ast.Date,
		ast.Union{Types: []ast.Type{ast.Date, ast.String}},
		ast.Union{Types: []ast.Type{ast.Date, ast.String}},
	)

	jsonValue  = ast.Reference{Name: "JsonValue"}
	point      = ast.Reference{Name: "Point"}
	lineString = ast.Reference{Name: "LineString"}
	polygon    = ast.Reference{Name: "Polygon"}
	geometry   = ast.Reference{Name: "Geometry"}
)

// wrap applies array-ness and then nullability: T[] | null, never (T | null)[].
func wrap(base ast.Type, opts MapOptions) ast.Type {
	if opts.IsArray {
		base = ast.Array{Element: base}
	}
	if opts.IsNullable {
		return ast.Nullable(base)
	}
	return base
}

var (
	modifierPattern = regexp.MustCompile(`\s*\([^)]*\)`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// normalize lower-cases a type name, drops length/precision modifiers and
// collapses whitespace: "Character Varying(255)" -> "character varying".
func normalize(dataType string) string {
	s := strings.ToLower(strings.TrimSpace(dataType))
	s = modifierPattern.ReplaceAllString(s, "")
	return spacePattern.ReplaceAllString(s, " ")
}
