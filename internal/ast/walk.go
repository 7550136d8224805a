package ast

import "fmt"

// Walk calls fn for t and then for every type nested inside it, depth first.
func Walk(t Type, fn func(Type)) {
	fn(t)
	switch n := t.(type) {
	case Primitive, Literal, Reference, Raw:
	case Union:
		for _, member := range n.Types {
			Walk(member, fn)
		}
	case Generic:
		for _, arg := range n.TypeArguments {
			Walk(arg, fn)
		}
	case Array:
		Walk(n.Element, fn)
	default:
		panic(fmt.Sprintf("ast: unknown type node %T", t))
	}
}

// References returns the names of all Reference nodes inside t, in walk
// order, without duplicates.
func References(t Type) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(t, func(n Type) {
		if ref, ok := n.(Reference); ok && !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	})
	return names
}
