package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL,
	first_surname  TEXT NOT NULL,
	second_surname TEXT,
	email          TEXT NOT NULL,
	password       TEXT NOT NULL,
	tuition        TEXT NOT NULL,
	role           TEXT NOT NULL CHECK (role IN ('student', 'teacher')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email));
CREATE UNIQUE INDEX IF NOT EXISTS users_tuition_key ON users (tuition);

CREATE TABLE IF NOT EXISTS classes (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	subject    TEXT NOT NULL,
	code       TEXT NOT NULL CONSTRAINT classes_code_key UNIQUE,
	teacher_id UUID NOT NULL REFERENCES users (id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS classes_teacher_name_key ON classes (teacher_id, LOWER(name));
`

// Migrate creates the tables if they are missing. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
