package transform

import (
	"testing"

	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumResolver_Names(t *testing.T) {
	enums := []schema.EnumMetadata{
		{Schema: "public", Name: "status", Values: []string{"a"}},
		{Schema: "audit", Name: "status", Values: []string{"b"}},
		{Schema: "public", Name: "mood", Values: []string{"happy"}},
		{Schema: "audit", Name: "log_level", Values: []string{"info"}},
	}
	r := NewEnumResolver(enums, "public")

	tests := []struct {
		schema, name, want string
	}{
		{"public", "status", "PublicStatus"},
		{"audit", "status", "AuditStatus"},
		{"public", "mood", "Mood"},
		{"audit", "log_level", "AuditLogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.schema+"."+tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.schema, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, r.Has(tt.schema, tt.name))
		})
	}
}

func TestEnumResolver_ReservedNames(t *testing.T) {
	enums := []schema.EnumMetadata{
		{Schema: "public", Name: "DB"},
		{Schema: "public", Name: "json_value"},
		{Schema: "public", Name: "point"},
		{Schema: "public", Name: "point_enum"},
		{Schema: "public", Name: "column_type"},
	}
	r := NewEnumResolver(enums, "public")

	tests := map[string]string{
		"DB":          "DBEnum",
		"json_value":  "JsonValueEnum",
		"point_enum":  "PointEnum",
		"point":       "PointEnumEnum",
		"column_type": "ColumnTypeEnum",
	}
	for name, want := range tests {
		assert.Equal(t, want, r.MustResolve("public", name), name)
	}

	again := NewEnumResolver(enums, "public")
	for name := range tests {
		assert.Equal(t, r.MustResolve("public", name), again.MustResolve("public", name))
	}
}

func TestEnumResolver_DuplicateEnumsCountOnce(t *testing.T) {
	r := NewEnumResolver([]schema.EnumMetadata{
		{Schema: "app", Name: "posts_status_enum"},
		{Schema: "app", Name: "posts_status_enum"},
	}, "app")

	assert.Equal(t, "PostsStatusEnum", r.MustResolve("app", "posts_status_enum"))
}

func TestEnumResolver_Deterministic(t *testing.T) {
	enums := []schema.EnumMetadata{
		{Schema: "public", Name: "role"},
		{Schema: "billing", Name: "role"},
		{Schema: "billing", Name: "currency"},
	}
	first := NewEnumResolver(enums, "public")
	for i := 0; i < 20; i++ {
		again := NewEnumResolver(enums, "public")
		assert.Equal(t, first.names, again.names)
	}
}

func TestEnumResolver_Miss(t *testing.T) {
	r := NewEnumResolver(nil, "public")

	assert.False(t, r.Has("public", "nope"))

	_, err := r.Resolve("public", "nope")
	require.Error(t, err)
	assert.True(t, errs.IsInternal(err))

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		assert.True(t, errs.IsInternal(err))
	}()
	r.MustResolve("public", "nope")
}
