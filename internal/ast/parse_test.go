package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType_RoundTrip(t *testing.T) {
	types := []Type{
		Number,
		Unknown,
		Buffer,
		Literal{Value: "it's"},
		Literal{Value: `back\slash`},
		Literal{Value: "tab\tand\nnewline"},
		Literal{Value: true},
		Literal{Value: false},
		Literal{Value: int64(-7)},
		Literal{Value: 2.25},
		Reference{Name: "JsonValue"},
		StringLiterals([]string{"draft", "published"}),
		Nullable(Reference{Name: "Mood"}),
		Generic{Name: "Generated", TypeArguments: []Type{Number}},
		ColumnType(String, Union{Types: []Type{String, Number, BigInt}}, Union{Types: []Type{String, Number, BigInt}}),
		Array{Element: String},
		Nullable(Array{Element: Number}),
		Array{Element: StringLiterals([]string{"a", "b"})},
		Array{Element: Array{Element: Date}},
		Union{Types: []Type{Union{Types: []Type{String, Number}}, Null}},
		Generic{Name: "Generated", TypeArguments: []Type{Nullable(dateColumn())}},
	}

	for _, typ := range types {
		text := SerializeType(typ)
		t.Run(text, func(t *testing.T) {
			parsed, err := ParseType(text)
			require.NoError(t, err)
			if diff := cmp.Diff(typ, parsed); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseType_Whitespace(t *testing.T) {
	got, err := ParseType("  ColumnType< Date ,Date|string , Date | string >  ")
	require.NoError(t, err)
	assert.Equal(t, dateColumn(), got)
}

func TestParseType_Errors(t *testing.T) {
	for _, text := range []string{
		"",
		"string |",
		"Foo<string",
		"(number",
		"'unterminated",
		"number[",
		"string }",
		"a # b",
	} {
		_, err := ParseType(text)
		assert.True(t, errs.IsInvalidInput(err), "%q should fail", text)
	}
}
