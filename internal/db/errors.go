package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLite extended result codes for constraint failures.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

type sqliteCoder interface {
	Code() int
}

// IsUniqueViolation reports whether err was caused by a unique or primary
// key constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var coder sqliteCoder
	if errors.As(err, &coder) {
		switch coder.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		}
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
