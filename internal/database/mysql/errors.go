package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/koustreak/kyselygen/internal/errs"
)

// serverErrKinds classifies MySQL server error numbers seen while
// connecting or reading INFORMATION_SCHEMA. Numbers not listed are query
// failures.
// See https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
var serverErrKinds = map[uint16]errs.ErrKind{
	1044: errs.ErrKindPermissionDenied, // ER_DBACCESS_DENIED_ERROR
	1045: errs.ErrKindPermissionDenied, // ER_ACCESS_DENIED_ERROR
	1142: errs.ErrKindPermissionDenied, // ER_TABLEACCESS_DENIED_ERROR
	1227: errs.ErrKindPermissionDenied, // ER_SPECIFIC_ACCESS_DENIED_ERROR
	1040: errs.ErrKindConnectionFailed, // ER_CON_COUNT_ERROR
	1046: errs.ErrKindConnectionFailed, // ER_NO_DB_ERROR
	1049: errs.ErrKindConnectionFailed, // ER_BAD_DB_ERROR
	1203: errs.ErrKindConnectionFailed, // ER_TOO_MANY_USER_CONNECTIONS
	1317: errs.ErrKindTimeout,          // ER_QUERY_INTERRUPTED
	3024: errs.ErrKindTimeout,          // ER_QUERY_TIMEOUT
}

// mapError converts a go-sql-driver error into *errs.Error, prefixing msg.
// It returns nil for a nil err.
func mapError(err error, msg string) error {
	var serverErr *mysql.MySQLError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	case errors.Is(err, sql.ErrNoRows):
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case errors.As(err, &serverErr):
		kind, ok := serverErrKinds[serverErr.Number]
		if !ok {
			kind = errs.ErrKindQueryFailed
		}
		return errs.Wrap(kind, msg+": "+serverErr.Message, err)
	}
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
