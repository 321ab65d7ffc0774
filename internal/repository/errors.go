package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a postgres unique constraint failure
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// expectAffected turns a zero-row update or delete into notFound
func expectAffected(rowsAffected int64, notFound error) error {
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
