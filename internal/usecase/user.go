package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/email"
	"github.com/ErlanBelekov/classroom/internal/hasher"
	"github.com/ErlanBelekov/classroom/internal/repository"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/validation"
	"golang.org/x/sync/errgroup"
)

type UserUsecase struct {
	users   repository.UserRepository
	hasher  hasher.Hasher
	email   email.Sender
	v       *validation.Validators
	logger  *slog.Logger
	baseURL string

	// OnRegistered runs after a user is persisted. Optional.
	OnRegistered func(domain.Role)
}

func NewUserUsecase(
	users repository.UserRepository,
	h hasher.Hasher,
	sender email.Sender,
	v *validation.Validators,
	logger *slog.Logger,
	baseURL string,
) *UserUsecase {
	return &UserUsecase{
		users:   users,
		hasher:  h,
		email:   sender,
		v:       v,
		logger:  logger.With("component", "users"),
		baseURL: baseURL,
	}
}

// AddUser registers a user: shape and domain rules first, then both
// uniqueness checks in parallel so every conflict is reported together.
func (u *UserUsecase) AddUser(ctx context.Context, input any) (result.Result[domain.PublicUser, domain.FieldErrors], error) {
	var none result.Result[domain.PublicUser, domain.FieldErrors]

	parsed := validation.Parse[domain.NewUser](input, u.v.NewUser, u.v.NewUserRules)
	if parsed.IsErr() {
		return result.Err[domain.PublicUser](parsed.Error()), nil
	}
	nu := parsed.Value()

	var emailTaken, tuitionTaken bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emailTaken, err = u.users.EmailIsRegistered(gctx, nu.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tuitionTaken, err = u.users.TuitionIsRegistered(gctx, nu.Tuition)
		if err != nil {
			return fmt.Errorf("check tuition: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return none, err
	}

	var conflicts domain.FieldErrors
	if emailTaken {
		conflicts = append(conflicts, u.v.Catalog.FieldError("email", validation.MsgEmailTaken))
	}
	if tuitionTaken {
		conflicts = append(conflicts, u.v.Catalog.FieldError("tuition", validation.MsgTuitionTaken))
	}
	if len(conflicts) > 0 {
		return result.Err[domain.PublicUser](conflicts), nil
	}

	digest, err := u.hasher.Hash(nu.Password)
	if err != nil {
		return none, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Add(ctx, &domain.User{
		Name:          nu.Name,
		FirstSurname:  nu.FirstSurname,
		SecondSurname: nu.SecondSurname,
		Email:         nu.Email,
		Password:      digest,
		Tuition:       nu.Tuition,
		Role:          domain.RoleForTuition(nu.Tuition),
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		switch c, _ := domain.Conflict(err); c {
		case domain.ConstraintUserEmail:
			return result.Err[domain.PublicUser](domain.FieldErrors{u.v.Catalog.FieldError("email", validation.MsgEmailTaken)}), nil
		case domain.ConstraintUserTuition:
			return result.Err[domain.PublicUser](domain.FieldErrors{u.v.Catalog.FieldError("tuition", validation.MsgTuitionTaken)}), nil
		}
		return none, fmt.Errorf("add user: %w", err)
	}

	if u.OnRegistered != nil {
		u.OnRegistered(created.Role)
	}

	subject, body := email.Welcome(created.Name, created.Tuition, u.baseURL)
	if err := u.email.Send(ctx, created.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email failed", "user_id", created.ID, "error", err)
	}

	return result.Ok[domain.PublicUser, domain.FieldErrors](created.Public()), nil
}

// GetUser returns domain.ErrNotFound when id matches nobody.
func (u *UserUsecase) GetUser(ctx context.Context, id string) (domain.PublicUser, error) {
	user, err := u.users.Get(ctx, id)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return domain.PublicUser{}, domain.ErrNotFound
	}
	return user.Public(), nil
}

type UserPage = domain.Page[domain.PublicUser, domain.UserCriteria]

// ListUsers validates raw criteria (typically query parameters) and returns
// one page of public projections.
func (u *UserUsecase) ListUsers(ctx context.Context, input any) (result.Result[UserPage, domain.FieldErrors], error) {
	parsed := u.v.UserCriteria.Validate(input)
	if parsed.IsErr() {
		return result.Err[UserPage](parsed.Error()), nil
	}

	page, err := u.users.GetBy(ctx, parsed.Value())
	if err != nil {
		return result.Result[UserPage, domain.FieldErrors]{}, fmt.Errorf("list users: %w", err)
	}
	return result.Ok[UserPage, domain.FieldErrors](domain.MapPage(page, func(user *domain.User) domain.PublicUser {
		return user.Public()
	})), nil
}
