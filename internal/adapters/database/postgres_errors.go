package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqErrorCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqErrorCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqErrorCode(err) == pqForeignKeyViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// retryOnConflict runs a read-then-write unit once more when it lost an
// insert race to a concurrent writer; the second read sees the winner's row.
func retryOnConflict(fn func() error) error {
	err := fn()
	if isUniqueViolation(err) {
		err = fn()
	}
	return err
}
