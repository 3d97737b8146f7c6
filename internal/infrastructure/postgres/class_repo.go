package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const classColumns = `id, name, subject, code, teacher_id, created_at, updated_at`

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) Add(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	query := `
		INSERT INTO classes (id, name, subject, code, teacher_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + classColumns

	created, err := scanClass(r.pool.QueryRow(ctx, query,
		uuid.NewString(), c.Name, c.Subject, c.Code, c.TeacherID,
	))
	if err != nil {
		return nil, mapError("insert class", err)
	}
	return created, nil
}

func (r *ClassRepository) Get(ctx context.Context, id string) (*domain.Class, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	c, err := scanClass(r.pool.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("get class", err)
	}
	return c, nil
}

func (r *ClassRepository) NameIsTaken(ctx context.Context, teacherID, name string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM classes WHERE teacher_id = $1 AND LOWER(name) = LOWER($2))`,
		teacherID, name,
	).Scan(&taken)
	if err != nil {
		return false, mapError("check class name", err)
	}
	return taken, nil
}

func (r *ClassRepository) GetBy(ctx context.Context, c domain.ClassCriteria) (domain.Page[*domain.Class, domain.ClassCriteria], error) {
	c.Page, c.PerPage = domain.Normalize(c.Page, c.PerPage)
	page := domain.Page[*domain.Class, domain.ClassCriteria]{Page: c.Page, Criteria: c}

	filter := ""
	var args []any
	if c.TeacherID != "" {
		if uuid.Validate(c.TeacherID) != nil {
			page.TotalPages = 1
			page.Results = []*domain.Class{}
			return page, nil
		}
		filter = " WHERE teacher_id = $1"
		args = append(args, c.TeacherID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classes`+filter, args...).Scan(&total); err != nil {
		return page, mapError("count classes", err)
	}
	page.TotalPages = domain.TotalPages(total, c.PerPage)

	args = append(args, c.PerPage, (c.Page-1)*c.PerPage)
	query := fmt.Sprintf(`SELECT %s FROM classes%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		classColumns, filter, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return page, mapError("list classes", err)
	}
	defer rows.Close()

	page.Results = []*domain.Class{}
	for rows.Next() {
		cl, err := scanClass(rows)
		if err != nil {
			return page, mapError("scan class", err)
		}
		page.Results = append(page.Results, cl)
	}
	return page, mapError("iterate classes", rows.Err())
}

func scanClass(row pgx.Row) (*domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.Name, &c.Subject, &c.Code, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
