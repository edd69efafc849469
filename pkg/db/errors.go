package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. When a constraint name is given, it must also appear in the
// error for the check to pass.
func IsUniqueViolation(err error, constraintName ...string) bool {
	if err == nil {
		return false
	}

	matched := false
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		matched = pgErr.Code == uniqueViolationCode
	case errors.Is(err, gorm.ErrDuplicatedKey):
		matched = true
	default:
		matched = strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
	if !matched {
		return false
	}

	if len(constraintName) > 0 && constraintName[0] != "" {
		if pgErr != nil {
			return pgErr.ConstraintName == constraintName[0] ||
				strings.Contains(err.Error(), constraintName[0])
		}
		return strings.Contains(err.Error(), constraintName[0])
	}
	return true
}
