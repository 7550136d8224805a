// Package ast is the declaration tree emitted for a database and its
// TypeScript rendering.
//
// Type and Declaration are closed sum types: only the node structs in this
// file implement them, and Serialize switches over every variant.
package ast

// Type is a TypeScript type expression.
type Type interface {
	typeNode()
}

// Primitive is a built-in or ambient type name: string, number, null,
// unknown, Date, Buffer, ...
type Primitive struct {
	Value string
}

// Literal is a literal type. Value is a string, bool, int64 or float64.
type Literal struct {
	Value any
}

// Reference names a declared type such as an enum alias or JsonValue.
type Reference struct {
	Name string
}

// Union keeps its members in construction order.
type Union struct {
	Types []Type
}

// Generic is an instantiated generic, e.g. ColumnType<S, I, U>.
type Generic struct {
	Name          string
	TypeArguments []Type
}

// Raw is emitted verbatim.
type Raw struct {
	Text string
}

// Array is T[].
type Array struct {
	Element Type
}

func (Primitive) typeNode() {}
func (Literal) typeNode()   {}
func (Reference) typeNode() {}
func (Union) typeNode()     {}
func (Generic) typeNode()   {}
func (Raw) typeNode()       {}
func (Array) typeNode()     {}

// Declaration is a top-level statement of the generated file.
type Declaration interface {
	declaration()
}

// Import is an import statement.
type Import struct {
	Names    []string
	From     string
	TypeOnly bool
}

// TypeAlias is "type Name = Type". Name may carry type parameters.
type TypeAlias struct {
	Name     string
	Type     Type
	Exported bool
}

// Interface is an interface with ordered properties.
type Interface struct {
	Name       string
	Properties []Property
	Exported   bool
}

// Property is one interface member. Comment renders as a JSDoc block.
type Property struct {
	Name     string
	Type     Type
	Optional bool
	Comment  string
}

func (Import) declaration()    {}
func (TypeAlias) declaration() {}
func (Interface) declaration() {}

// Program is the ordered list of declarations of one generated file.
type Program struct {
	Declarations []Declaration
}

// --- constructors ---

var (
	String  = Primitive{Value: "string"}
	Number  = Primitive{Value: "number"}
	Boolean = Primitive{Value: "boolean"}
	BigInt  = Primitive{Value: "bigint"}
	Null    = Primitive{Value: "null"}
	Unknown = Primitive{Value: "unknown"}
	Date    = Primitive{Value: "Date"}
	Buffer  = Primitive{Value: "Buffer"}
)

// Nullable returns the two-member union t | null. A union t is kept as one
// member, never flattened.
func Nullable(t Type) Type {
	return Union{Types: []Type{t, Null}}
}

// ColumnType returns ColumnType<sel, ins, upd>.
func ColumnType(sel, ins, upd Type) Generic {
	return Generic{Name: "ColumnType", TypeArguments: []Type{sel, ins, upd}}
}

// StringLiterals returns a union of string literals in the given order.
func StringLiterals(values []string) Union {
	types := make([]Type, len(values))
	for i, v := range values {
		types[i] = Literal{Value: v}
	}
	return Union{Types: types}
}
