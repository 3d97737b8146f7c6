package postgres

import (
	"errors"
	"fmt"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// mapError wraps err with op and translates unique violations to a
// *domain.ConflictError naming the constraint. pgx.ErrNoRows is handled by the callers, which
// report absence as a nil entity.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, &domain.ConflictError{Constraint: pgErr.ConstraintName})
	}
	return fmt.Errorf("%s: %w", op, err)
}
