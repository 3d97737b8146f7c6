package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/ratelimit"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

// ---- fakes ----

type fakeUserRepo struct {
	add                 func(ctx context.Context, u *domain.User) (*domain.User, error)
	get                 func(ctx context.Context, id string) (*domain.User, error)
	getBy               func(ctx context.Context, c domain.UserCriteria) (domain.Page[*domain.User, domain.UserCriteria], error)
	emailIsRegistered   func(ctx context.Context, email string) (bool, error)
	tuitionIsRegistered func(ctx context.Context, tuition string) (bool, error)
	findByEmail         func(ctx context.Context, email string) (*domain.User, error)
	findByTuition       func(ctx context.Context, tuition string) (*domain.User, error)
	countByRole         func(ctx context.Context) (map[domain.Role]int64, error)
}

func (r *fakeUserRepo) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.add(ctx, u)
}

func (r *fakeUserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, id)
}

func (r *fakeUserRepo) GetBy(ctx context.Context, c domain.UserCriteria) (domain.Page[*domain.User, domain.UserCriteria], error) {
	return r.getBy(ctx, c)
}

func (r *fakeUserRepo) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	return r.emailIsRegistered(ctx, email)
}

func (r *fakeUserRepo) TuitionIsRegistered(ctx context.Context, tuition string) (bool, error) {
	return r.tuitionIsRegistered(ctx, tuition)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByTuition(ctx context.Context, tuition string) (*domain.User, error) {
	return r.findByTuition(ctx, tuition)
}

func (r *fakeUserRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	return r.countByRole(ctx)
}

type fakeClassRepo struct {
	add         func(ctx context.Context, c *domain.Class) (*domain.Class, error)
	get         func(ctx context.Context, id string) (*domain.Class, error)
	getBy       func(ctx context.Context, c domain.ClassCriteria) (domain.Page[*domain.Class, domain.ClassCriteria], error)
	nameIsTaken func(ctx context.Context, teacherID, name string) (bool, error)
}

func (r *fakeClassRepo) Add(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	return r.add(ctx, c)
}

func (r *fakeClassRepo) Get(ctx context.Context, id string) (*domain.Class, error) {
	return r.get(ctx, id)
}

func (r *fakeClassRepo) GetBy(ctx context.Context, c domain.ClassCriteria) (domain.Page[*domain.Class, domain.ClassCriteria], error) {
	return r.getBy(ctx, c)
}

func (r *fakeClassRepo) NameIsTaken(ctx context.Context, teacherID, name string) (bool, error) {
	return r.nameIsTaken(ctx, teacherID, name)
}

// fakeHasher prefixes instead of hashing so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (fakeHasher) Matches(p, digest string) bool { return digest == "hashed:"+p }

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

type fakeLimiter struct {
	allow func(ctx context.Context, key string) (ratelimit.Decision, error)
	reset func(ctx context.Context, key string) error
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	return l.allow(ctx, key)
}

func (l *fakeLimiter) Reset(ctx context.Context, key string) error {
	if l.reset == nil {
		return nil
	}
	return l.reset(ctx, key)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

var (
	testValidators = validation.New(validation.MustCatalog("en"))
	testNow        = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	discardLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func msg(key string) string { return testValidators.Catalog.Message(key) }

func secondSurname(s string) *string { return &s }

var testStudent = &domain.User{
	ID:            "7b8f0f5e-1d0c-4a57-9a0d-4a1c8f1d2e01",
	Name:          "ANA",
	FirstSurname:  "LOPEZ",
	SecondSurname: secondSurname("DE LA CRUZ"),
	Email:         "a@b.com",
	Password:      "hashed:Abcdef1!",
	Tuition:       "A.000001",
	Role:          domain.RoleStudent,
	CreatedAt:     testNow,
	UpdatedAt:     testNow,
}

var testTeacher = domain.PublicUser{
	ID:           "0c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f",
	Name:         "LUIS",
	FirstSurname: "GARCIA",
	Email:        "luis@school.edu",
	Tuition:      "P.123456",
	Role:         domain.RoleTeacher,
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
