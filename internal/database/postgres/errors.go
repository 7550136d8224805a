package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/kyselygen/internal/errs"
)

// SQLSTATE codes and classes that matter when reading the catalog.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
var (
	stateKinds = map[string]errs.ErrKind{
		"42501": errs.ErrKindPermissionDenied, // insufficient_privilege
		"3D000": errs.ErrKindConnectionFailed, // invalid_catalog_name
		"57014": errs.ErrKindTimeout,          // query_canceled
	}
	classKinds = map[string]errs.ErrKind{
		"08": errs.ErrKindConnectionFailed,
		"28": errs.ErrKindPermissionDenied,
	}
)

// mapError converts a pgx error into *errs.Error, prefixing msg. It returns
// nil for a nil err.
func mapError(err error, msg string) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	case errors.Is(err, pgx.ErrNoRows):
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case errors.As(err, &pgErr):
		return errs.Wrap(sqlStateKind(pgErr.Code), msg+": "+pgErr.Message, err)
	}
	// network, TLS and DNS failures carry no SQLSTATE
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

func sqlStateKind(code string) errs.ErrKind {
	if kind, ok := stateKinds[code]; ok {
		return kind
	}
	if len(code) >= 2 {
		if kind, ok := classKinds[code[:2]]; ok {
			return kind
		}
	}
	return errs.ErrKindQueryFailed
}
