package gateway

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when an insert violates a uniqueness
	// constraint, most notably the (folder_id, video_id) pair.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// wrapError maps database errors to the gateway's error taxonomy.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w (constraint: %s)", operation, ErrAlreadyExists, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w (constraint: %s)", operation, ErrForeignKeyViolation, pgErr.ConstraintName)
		default:
			return fmt.Errorf("%s: database error [%s]: %w", operation, pgErr.Code, err)
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is an ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
