package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	typ := Generic{Name: "Generated", TypeArguments: []Type{
		Nullable(Array{Element: Union{Types: []Type{Reference{Name: "Point"}, Reference{Name: "JsonValue"}, Reference{Name: "Point"}}}}),
	}}

	assert.Equal(t, []string{"Point", "JsonValue"}, References(typ))
	assert.Empty(t, References(Number))
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	var kinds []string
	Walk(Nullable(Array{Element: Literal{Value: "x"}}), func(n Type) {
		switch n.(type) {
		case Union:
			kinds = append(kinds, "union")
		case Array:
			kinds = append(kinds, "array")
		case Literal:
			kinds = append(kinds, "literal")
		case Primitive:
			kinds = append(kinds, "primitive")
		}
	})
	assert.Equal(t, []string{"union", "array", "literal", "primitive"}, kinds)

	assert.Panics(t, func() { Walk(bogusType{}, func(Type) {}) })
}
