package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/hasher"
	"github.com/ErlanBelekov/classroom/internal/ratelimit"
	"github.com/ErlanBelekov/classroom/internal/repository"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/token"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

const DefaultTokenTTL = time.Hour

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   hasher.Hasher
	tokens   *token.Service
	v        *validation.Validators
	limiter  ratelimit.Limiter
	logger   *slog.Logger
	secret   []byte
	tokenTTL time.Duration
}

type AuthConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthUsecase(
	users repository.UserRepository,
	h hasher.Hasher,
	tokens *token.Service,
	v *validation.Validators,
	limiter ratelimit.Limiter,
	logger *slog.Logger,
	cfg AuthConfig,
) *AuthUsecase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &AuthUsecase{
		users:    users,
		hasher:   h,
		tokens:   tokens,
		v:        v,
		limiter:  limiter,
		logger:   logger.With("component", "auth"),
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
	}
}

// Login exchanges credentials for a signed token over the user's public
// projection. Unknown email and wrong password are field errors; a
// *domain.RateLimitedError or a repository failure comes back as error.
func (u *AuthUsecase) Login(ctx context.Context, input any) (result.Result[string, domain.FieldErrors], error) {
	parsed := u.v.Credentials.Validate(input)
	if parsed.IsErr() {
		return result.Err[string](parsed.Error()), nil
	}
	creds := parsed.Value()

	decision, err := u.limiter.Allow(ctx, creds.Email)
	if err != nil {
		// Fail open: a limiter outage does not block logins.
		u.logger.WarnContext(ctx, "login rate limiter unavailable", "error", err)
	} else if !decision.Allowed {
		return result.Result[string, domain.FieldErrors]{}, &domain.RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	registered, err := u.users.EmailIsRegistered(ctx, creds.Email)
	if err != nil {
		return result.Result[string, domain.FieldErrors]{}, fmt.Errorf("check email: %w", err)
	}
	if !registered {
		return u.fieldErr("email", validation.MsgEmailNotFound), nil
	}

	user, err := u.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		return result.Result[string, domain.FieldErrors]{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return result.Result[string, domain.FieldErrors]{}, fmt.Errorf("email %q registered but not found: %w", creds.Email, domain.ErrInconsistentRepository)
	}

	if !u.hasher.Matches(creds.Password, user.Password) {
		return u.fieldErr("password", validation.MsgPasswordIncorrect), nil
	}

	signed, err := u.tokens.Generate(u.secret, u.tokenTTL, user.Public())
	if err != nil {
		return result.Result[string, domain.FieldErrors]{}, fmt.Errorf("issue token: %w", err)
	}

	if err := u.limiter.Reset(ctx, creds.Email); err != nil {
		u.logger.WarnContext(ctx, "reset login rate limit", "error", err)
	}
	return result.Ok[string, domain.FieldErrors](signed), nil
}

// Authenticate verifies a token and returns the user it was issued for.
func (u *AuthUsecase) Authenticate(raw string) result.Result[domain.PublicUser, domain.TokenError] {
	return token.IsValid(u.tokens, raw, u.secret, u.v.PublicUser)
}

// TokenTTL is how long issued tokens stay valid; the session cookie uses it too.
func (u *AuthUsecase) TokenTTL() time.Duration { return u.tokenTTL }

func (u *AuthUsecase) fieldErr(field, key string) result.Result[string, domain.FieldErrors] {
	return result.Err[string](domain.FieldErrors{u.v.Catalog.FieldError(field, key)})
}

// IsRateLimited reports whether err is a login throttle and for how long.
func IsRateLimited(err error) (time.Duration, bool) {
	var rl *domain.RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
