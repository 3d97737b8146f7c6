package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/repository"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/token"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

const (
	// Excludes 0, O, 1 and I.
	classCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	classCodeLength   = 7
	classCodeAttempts = 3
)

type ClassUsecase struct {
	classes repository.ClassRepository
	v       *validation.Validators
	code    func() string
}

func NewClassUsecase(classes repository.ClassRepository, v *validation.Validators) *ClassUsecase {
	return &ClassUsecase{
		classes: classes,
		v:       v,
		code:    func() string { return token.RandomCode(classCodeAlphabet, classCodeLength) },
	}
}

// WithCodeGenerator replaces the random join-code source.
func (u *ClassUsecase) WithCodeGenerator(fn func() string) *ClassUsecase {
	u.code = fn
	return u
}

type ClassPage = domain.Page[domain.PublicClass, domain.ClassCriteria]

// AddClass creates a class owned by teacher. Only teachers may create
// classes, and a teacher's class names are unique.
func (u *ClassUsecase) AddClass(ctx context.Context, teacher domain.PublicUser, input any) (result.Result[domain.PublicClass, domain.FieldErrors], error) {
	var none result.Result[domain.PublicClass, domain.FieldErrors]

	if teacher.Role != domain.RoleTeacher {
		return result.Err[domain.PublicClass](domain.FieldErrors{u.v.Catalog.FieldError("role", validation.MsgNotTeacher)}), nil
	}

	parsed := validation.Parse[domain.NewClass](input, u.v.NewClass, u.v.NewClassRules)
	if parsed.IsErr() {
		return result.Err[domain.PublicClass](parsed.Error()), nil
	}
	nc := parsed.Value()

	taken, err := u.classes.NameIsTaken(ctx, teacher.ID, nc.Name)
	if err != nil {
		return none, fmt.Errorf("check class name: %w", err)
	}
	if taken {
		return result.Err[domain.PublicClass](domain.FieldErrors{u.v.Catalog.FieldError("name", validation.MsgClassNameTaken)}), nil
	}

	// A join-code collision draws a new code.
	for attempt := 1; ; attempt++ {
		created, err := u.classes.Add(ctx, &domain.Class{
			Name:      nc.Name,
			Subject:   nc.Subject,
			Code:      u.code(),
			TeacherID: teacher.ID,
		})
		if err == nil {
			return result.Ok[domain.PublicClass, domain.FieldErrors](created.Public()), nil
		}
		c, _ := domain.Conflict(err)
		if c == domain.ConstraintClassName {
			return result.Err[domain.PublicClass](domain.FieldErrors{u.v.Catalog.FieldError("name", validation.MsgClassNameTaken)}), nil
		}
		if c != domain.ConstraintClassCode || attempt == classCodeAttempts {
			return none, fmt.Errorf("add class: %w", err)
		}
	}
}

func (u *ClassUsecase) GetClass(ctx context.Context, id string) (domain.PublicClass, error) {
	c, err := u.classes.Get(ctx, id)
	if err != nil {
		return domain.PublicClass{}, fmt.Errorf("get class: %w", err)
	}
	if c == nil {
		return domain.PublicClass{}, domain.ErrNotFound
	}
	return c.Public(), nil
}

func (u *ClassUsecase) ListClasses(ctx context.Context, input any) (result.Result[ClassPage, domain.FieldErrors], error) {
	parsed := u.v.ClassCriteria.Validate(input)
	if parsed.IsErr() {
		return result.Err[ClassPage](parsed.Error()), nil
	}

	page, err := u.classes.GetBy(ctx, parsed.Value())
	if err != nil {
		return result.Result[ClassPage, domain.FieldErrors]{}, fmt.Errorf("list classes: %w", err)
	}
	return result.Ok[ClassPage, domain.FieldErrors](domain.MapPage(page, func(c *domain.Class) domain.PublicClass {
		return c.Public()
	})), nil
}
