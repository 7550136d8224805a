package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []string
		wantOK bool
	}{
		{"simple", "enum('draft','published')", []string{"draft", "published"}, true},
		{"escaped quote", "enum('it''s','test')", []string{"it's", "test"}, true},
		{"keyword case", "ENUM('A','b')", []string{"A", "b"}, true},
		{"spaces and commas in values", "enum('a, b', 'c d')", []string{"a, b", "c d"}, true},
		{"empty literal", "enum('')", []string{""}, true},
		{"parentheses in value", "enum('(x)','y')", []string{"(x)", "y"}, true},
		{"empty body", "enum()", nil, false},
		{"no literals", "enum(   )", nil, false},
		{"unterminated quote", "enum('a','b)", nil, false},
		{"not an enum", "varchar", nil, false},
		{"set is not an enum", "set('a')", nil, false},
		{"prefix only", "enumeration('a')", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEnumValues(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSetValues(t *testing.T) {
	got, ok := ParseSetValues("SET('read','write','it''s')")
	assert.True(t, ok)
	assert.Equal(t, []string{"read", "write", "it's"}, got)

	_, ok = ParseSetValues("set()")
	assert.False(t, ok)

	_, ok = ParseSetValues("enum('a')")
	assert.False(t, ok)
}

func TestEnumAndSetAreExclusive(t *testing.T) {
	inputs := []string{
		"enum('a')",
		"ENUM('a','b')",
		"set('a')",
		"Set('x','y')",
		"varchar",
		"enum()",
		"",
	}
	for _, in := range inputs {
		assert.False(t, IsEnumType(in) && IsSetType(in), in)
	}
	assert.True(t, IsEnumType("enum('a')"))
	assert.True(t, IsSetType("set('a')"))
	assert.False(t, IsEnumType("set('a')"))
}
