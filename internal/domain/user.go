package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// RoleForTuition derives the role from the tuition prefix: A (alumno) is a
// student, P (profesor) is a teacher.
func RoleForTuition(tuition string) Role {
	if strings.HasPrefix(strings.ToUpper(tuition), "P") {
		return RoleTeacher
	}
	return RoleStudent
}

// User is the full internal shape, password digest included.
type User struct {
	ID            string
	Name          string
	FirstSurname  string
	SecondSurname *string
	Email         string
	Password      string // bcrypt digest, never the plaintext
	Tuition       string
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser is what a client submits to register. Server-generated fields are absent.
type NewUser struct {
	Name          string  `json:"name"           validate:"required,max=60"`
	FirstSurname  string  `json:"first_surname"  validate:"required,max=60"`
	SecondSurname *string `json:"second_surname" validate:"omitempty,max=60"`
	Email         string  `json:"email"          validate:"required,email,max=254"`
	Password      string  `json:"password"       validate:"required,max=72"`
	Tuition       string  `json:"tuition"        validate:"required"`
}

// PublicUser is safe to hand to clients and to embed in tokens.
type PublicUser struct {
	ID            string  `json:"id"             validate:"required"`
	Name          string  `json:"name"           validate:"required"`
	FirstSurname  string  `json:"first_surname"  validate:"required"`
	SecondSurname *string `json:"second_surname,omitempty"`
	Email         string  `json:"email"          validate:"required,email"`
	Tuition       string  `json:"tuition"        validate:"required"`
	Role          Role    `json:"role"           validate:"required,oneof=student teacher"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		FirstSurname:  u.FirstSurname,
		SecondSurname: u.SecondSurname,
		Email:         u.Email,
		Tuition:       u.Tuition,
		Role:          u.Role,
	}
}

// Credentials are ephemeral login input.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserCriteria struct {
	Role    Role   `json:"role,omitempty"   validate:"omitempty,oneof=student teacher"`
	Search  string `json:"search,omitempty" validate:"max=100"`
	Page    int    `json:"page"             validate:"min=0,max=1000000"                coerce:"number"`
	PerPage int    `json:"per_page"         validate:"min=0,max=100"                    coerce:"number"`
}
