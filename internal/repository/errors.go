package repository

import (
	"errors"
	"fmt"

	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the gradebook error classes so callers
// never need to import pgx.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, gradebook.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", what, gradebook.ErrExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", what, gradebook.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w: %v", what, gradebook.ErrStorage, err)
}
