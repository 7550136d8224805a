package transform

import "github.com/koustreak/kyselygen/internal/ast"

const generatedBody = `T extends ColumnType<infer S, infer I, infer U>
  ? ColumnType<S, I | undefined, U>
  : ColumnType<T, T | undefined, T>`

var (
	kyselyImport = ast.Import{Names: []string{"ColumnType"}, From: "kysely", TypeOnly: true}

	generatedAlias = ast.TypeAlias{
		Name:     "Generated<T>",
		Type:     ast.Raw{Text: generatedBody},
		Exported: true,
	}
)

func ref(name string) ast.Reference { return ast.Reference{Name: name} }

// helperAliases are the aliases the type mappers refer to by name, in the
// order they are declared.
var helperAliases = []ast.TypeAlias{
	{Name: "JsonPrimitive", Exported: true, Type: ast.Union{Types: []ast.Type{ast.Boolean, ast.Number, ast.String, ast.Null}}},
	{Name: "JsonArray", Exported: true, Type: ast.Array{Element: ref("JsonValue")}},
	{Name: "JsonObject", Exported: true, Type: ast.Raw{Text: "{ [key: string]: JsonValue | undefined }"}},
	{Name: "JsonValue", Exported: true, Type: ast.Union{Types: []ast.Type{ref("JsonArray"), ref("JsonObject"), ref("JsonPrimitive")}}},
	{Name: "Point", Exported: true, Type: ast.Raw{Text: "{ x: number; y: number }"}},
	{Name: "LineString", Exported: true, Type: ast.Array{Element: ref("Point")}},
	{Name: "Polygon", Exported: true, Type: ast.Array{Element: ref("LineString")}},
	{Name: "Geometry", Exported: true, Type: ast.Union{Types: []ast.Type{ref("Point"), ref("LineString"), ref("Polygon")}}},
}

// helperDeps lists references hidden inside Raw helper bodies, which Walk
// cannot see.
var helperDeps = map[string][]string{
	"JsonObject": {"JsonValue"},
}

// requiredHelpers returns the helper aliases reachable from the given
// interfaces, in declaration order.
func requiredHelpers(interfaces []ast.Interface) []ast.Declaration {
	byName := make(map[string]ast.TypeAlias, len(helperAliases))
	for _, h := range helperAliases {
		byName[h.Name] = h
	}

	needed := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		h, ok := byName[name]
		if !ok || needed[name] {
			return
		}
		needed[name] = true
		for _, dep := range ast.References(h.Type) {
			visit(dep)
		}
		for _, dep := range helperDeps[name] {
			visit(dep)
		}
	}
	for _, iface := range interfaces {
		for _, prop := range iface.Properties {
			for _, name := range ast.References(prop.Type) {
				visit(name)
			}
		}
	}

	var decls []ast.Declaration
	for _, h := range helperAliases {
		if needed[h.Name] {
			decls = append(decls, h)
		}
	}
	return decls
}
