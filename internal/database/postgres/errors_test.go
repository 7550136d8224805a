package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"no rows", pgx.ErrNoRows, errs.ErrKindNotFound},
		{"connection class", &pgconn.PgError{Code: "08006", Message: "connection failure"}, errs.ErrKindConnectionFailed},
		{"bad password", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}, errs.ErrKindPermissionDenied},
		{"no privilege", &pgconn.PgError{Code: "42501", Message: "permission denied for schema"}, errs.ErrKindPermissionDenied},
		{"unknown database", &pgconn.PgError{Code: "3D000", Message: "database does not exist"}, errs.ErrKindConnectionFailed},
		{"statement timeout", &pgconn.PgError{Code: "57014", Message: "canceling statement"}, errs.ErrKindTimeout},
		{"syntax", &pgconn.PgError{Code: "42601", Message: "syntax error"}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "introspection failed")
			assert.Equal(t, tt.kind, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, mapError(nil, "unused"))
}
