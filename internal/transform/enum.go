package transform

import (
	"sort"

	"github.com/koustreak/kyselygen/internal/ast"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/koustreak/kyselygen/internal/strutil"
)

// EnumResolver assigns every enum a unique declaration name.
//
// An enum in the default schema is named PascalCase(name); any other enum is
// PascalCase(schema)+PascalCase(name). When two or more enums end up with
// the same name, every one of them takes the schema-qualified form. A name
// that is reserved for a generated declaration (Generated, DB, Point, ...)
// gets an "Enum" suffix, repeated until it is free.
type EnumResolver struct {
	names map[schema.EnumKey]string
}

// NewEnumResolver computes names for enums relative to defaultSchema.
func NewEnumResolver(enums []schema.EnumMetadata, defaultSchema string) *EnumResolver {
	base := make(map[schema.EnumKey]string, len(enums))
	groups := make(map[string]int, len(enums))
	for _, e := range enums {
		if _, dup := base[e.Key()]; dup {
			continue
		}
		name := baseEnumName(e, defaultSchema)
		base[e.Key()] = name
		groups[name]++
	}

	names := make(map[schema.EnumKey]string, len(base))
	used := make(map[string]bool, len(base))
	var clashing []schema.EnumKey
	for key, name := range base {
		if groups[name] > 1 {
			name = qualifiedName(key.Schema, key.Name)
		}
		if isReserved(name) {
			clashing = append(clashing, key)
			continue
		}
		names[key] = name
		used[name] = true
	}

	// sorted so suffixing does not depend on map order
	sort.Slice(clashing, func(i, j int) bool {
		if clashing[i].Schema != clashing[j].Schema {
			return clashing[i].Schema < clashing[j].Schema
		}
		return clashing[i].Name < clashing[j].Name
	})
	for _, key := range clashing {
		name := base[key]
		if groups[name] > 1 {
			name = qualifiedName(key.Schema, key.Name)
		}
		for isReserved(name) || used[name] {
			name += "Enum"
		}
		names[key] = name
		used[name] = true
	}
	return &EnumResolver{names: names}
}

func isReserved(name string) bool {
	for _, r := range reservedNames {
		if r == name {
			return true
		}
	}
	return false
}

func baseEnumName(e schema.EnumMetadata, defaultSchema string) string {
	if e.Schema == defaultSchema {
		return strutil.ToPascalCase(e.Name)
	}
	return qualifiedName(e.Schema, e.Name)
}

func qualifiedName(schemaName, name string) string {
	return strutil.ToPascalCase(schemaName) + strutil.ToPascalCase(name)
}

// Has reports whether the enum (schemaName, name) is known.
func (r *EnumResolver) Has(schemaName, name string) bool {
	_, ok := r.names[schema.EnumKey{Schema: schemaName, Name: name}]
	return ok
}

// Resolve returns the declaration name of the enum (schemaName, name).
func (r *EnumResolver) Resolve(schemaName, name string) (string, error) {
	resolved, ok := r.names[schema.EnumKey{Schema: schemaName, Name: name}]
	if !ok {
		return "", errs.Newf(errs.ErrKindInternal, "enum %s.%s was not registered with the resolver", schemaName, name)
	}
	return resolved, nil
}

// MustResolve is Resolve for callers that only look up enums the resolver
// was built from. A miss panics with an ErrKindInternal error.
func (r *EnumResolver) MustResolve(schemaName, name string) string {
	resolved, err := r.Resolve(schemaName, name)
	if err != nil {
		panic(err)
	}
	return resolved
}

// enumDeclaration builds the alias for one enum: a union of its values in
// declared order.
func enumDeclaration(e schema.EnumMetadata, name string) ast.TypeAlias {
	return ast.TypeAlias{
		Name:     name,
		Type:     ast.StringLiterals(e.Values),
		Exported: true,
	}
}
