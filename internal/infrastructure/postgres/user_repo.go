package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, first_surname, second_surname, email, password, tuition, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, name, first_surname, second_surname, email, password, tuition, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		u.Name,
		u.FirstSurname,
		u.SecondSurname,
		u.Email,
		u.Password,
		u.Tuition,
		string(u.Role),
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapError("insert user", err)
	}
	return created, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	return r.findOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find user by email", `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *UserRepository) FindByTuition(ctx context.Context, tuition string) (*domain.User, error) {
	return r.findOne(ctx, "find user by tuition", `SELECT `+userColumns+` FROM users WHERE tuition = $1`, tuition)
}

func (r *UserRepository) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "check email", `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
}

func (r *UserRepository) TuitionIsRegistered(ctx context.Context, tuition string) (bool, error) {
	return r.exists(ctx, "check tuition", `SELECT EXISTS (SELECT 1 FROM users WHERE tuition = $1)`, tuition)
}

// GetBy filters by role and a case-insensitive search over names, email and
// tuition, newest first.
func (r *UserRepository) GetBy(ctx context.Context, c domain.UserCriteria) (domain.Page[*domain.User, domain.UserCriteria], error) {
	c.Page, c.PerPage = domain.Normalize(c.Page, c.PerPage)
	page := domain.Page[*domain.User, domain.UserCriteria]{Page: c.Page, Criteria: c}

	var (
		where []string
		args  []any
	)
	if c.Role != "" {
		args = append(args, string(c.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR first_surname ILIKE $%d OR second_surname ILIKE $%d OR email ILIKE $%d OR tuition ILIKE $%d)",
			n, n, n, n, n))
	}
	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+filter, args...).Scan(&total); err != nil {
		return page, mapError("count users", err)
	}
	page.TotalPages = domain.TotalPages(total, c.PerPage)

	args = append(args, c.PerPage, (c.Page-1)*c.PerPage)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, filter, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return page, mapError("list users", err)
	}
	defer rows.Close()

	page.Results = []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return page, mapError("scan user", err)
		}
		page.Results = append(page.Results, u)
	}
	return page, mapError("iterate users", rows.Err())
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, mapError("count users by role", err)
	}
	defer rows.Close()

	counts := map[domain.Role]int64{domain.RoleStudent: 0, domain.RoleTeacher: 0}
	for rows.Next() {
		var (
			role  string
			count int64
		)
		if err := rows.Scan(&role, &count); err != nil {
			return nil, mapError("scan role count", err)
		}
		counts[domain.Role(role)] = count
	}
	return counts, mapError("iterate role counts", rows.Err())
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

func (r *UserRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, mapError(op, err)
	}
	return ok, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.FirstSurname, &u.SecondSurname,
		&u.Email, &u.Password, &u.Tuition, &role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
