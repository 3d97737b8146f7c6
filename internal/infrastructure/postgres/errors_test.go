package postgres

import (
	"errors"
	"testing"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError_UniqueViolationNamesConstraint(t *testing.T) {
	err := mapError("insert user", &pgconn.PgError{Code: uniqueViolation, ConstraintName: domain.ConstraintUserTuition})

	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if c, ok := domain.Conflict(err); !ok || c != domain.ConstraintUserTuition {
		t.Errorf("Conflict = %q, %v", c, ok)
	}
}

func TestMapError_OtherErrorsWrapped(t *testing.T) {
	if mapError("op", nil) != nil {
		t.Fatal("nil should stay nil")
	}

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "classes_teacher_id_fkey"}
	err := mapError("insert class", fk)
	if _, ok := domain.Conflict(err); ok {
		t.Error("foreign key violation reported as a conflict")
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Errorf("original error lost: %v", err)
	}
}
