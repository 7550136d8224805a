package databasetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows_ScanAssignsAndZeroes(t *testing.T) {
	rows := NewRows([][]any{{"users", true, nil}})
	require.True(t, rows.Next())

	var name string
	var flag bool
	comment := "stale"
	require.NoError(t, rows.Scan(&name, &flag, &comment))

	assert.Equal(t, "users", name)
	assert.True(t, flag)
	assert.Empty(t, comment)
	assert.False(t, rows.Next())
}

func TestRows_ScanTypeMismatch(t *testing.T) {
	rows := NewRows([][]any{{42}})
	require.True(t, rows.Next())

	var s string
	assert.Error(t, rows.Scan(&s))
}

func TestDB_Routes(t *testing.T) {
	db := &DB{Handler: Routes(map[string][][]any{
		"pg_enum": {{"public", "mood", "ok"}},
	})}

	rows, err := db.Query(context.Background(), "SELECT * FROM pg_enum")
	require.NoError(t, err)
	defer rows.Close()

	assert.True(t, rows.Next())
	assert.Equal(t, []string{"SELECT * FROM pg_enum"}, db.Queries())

	row, err := db.QueryRow(context.Background(), "SELECT 1")
	require.NoError(t, err)
	var n int
	assert.Error(t, row.Scan(&n))
}
