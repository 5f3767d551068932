package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/janusipm/brandvigilante/internal/common"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err carries a Postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// WrapWriteErr maps write failures to repository errors: unique violations
// become common.ErrorAlreadyExists, everything else is wrapped as a db error.
func WrapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}
