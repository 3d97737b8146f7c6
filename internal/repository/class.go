package repository

import (
	"context"

	"github.com/ErlanBelekov/classroom/internal/domain"
)

type ClassRepository interface {
	Add(ctx context.Context, c *domain.Class) (*domain.Class, error)
	Get(ctx context.Context, id string) (*domain.Class, error)
	GetBy(ctx context.Context, criteria domain.ClassCriteria) (domain.Page[*domain.Class, domain.ClassCriteria], error)

	// NameIsTaken is scoped to one teacher; two teachers may share a class name.
	NameIsTaken(ctx context.Context, teacherID, name string) (bool, error)
}
