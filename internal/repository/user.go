package repository

import (
	"context"

	"github.com/ErlanBelekov/classroom/internal/domain"
)

// Lookups return (nil, nil) when nothing matches; errors are reserved for I/O.
type UserRepository interface {
	// Add persists u and returns it with ID and timestamps filled in.
	// u.Password must already be a digest.
	Add(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetBy(ctx context.Context, criteria domain.UserCriteria) (domain.Page[*domain.User, domain.UserCriteria], error)

	EmailIsRegistered(ctx context.Context, email string) (bool, error)
	TuitionIsRegistered(ctx context.Context, tuition string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByTuition(ctx context.Context, tuition string) (*domain.User, error)

	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
