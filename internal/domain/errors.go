package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")

	// ErrInconsistentRepository means an existence check and the matching
	// fetch disagreed. It is never a user-correctable condition.
	ErrInconsistentRepository = errors.New("repository returned inconsistent results")

	ErrMisconfigured = errors.New("misconfigured")
)

// Unique constraints a concurrent write can still trip after the existence checks.
const (
	ConstraintUserEmail   = "users_email_key"
	ConstraintUserTuition = "users_tuition_key"
	ConstraintClassCode   = "classes_code_key"
	ConstraintClassName   = "classes_teacher_name_key"
)

// ConflictError is a unique-constraint violation. It matches ErrAlreadyExists.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("already exists (%s)", e.Constraint)
}

func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// Conflict reports the constraint err violated, if any.
func Conflict(err error) (string, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Constraint, true
	}
	return "", false
}

// FieldError is a single named-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is a batch of field failures reported together.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	switch len(e) {
	case 0:
		return "no field errors"
	case 1:
		return e[0].Error()
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("%d field errors: %s", len(e), strings.Join(parts, "; "))
}

// Fields lists the failing field names in order.
func (e FieldErrors) Fields() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Field
	}
	return out
}

// Has reports whether field failed.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Single wraps one field failure as a batch.
func Single(field, message string) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}

// TokenError is the closed set of signed-token verification failures.
type TokenError int

const (
	TokenUnknown TokenError = iota
	TokenExpired
	TokenInvalid
)

func (e TokenError) String() string {
	switch e {
	case TokenExpired:
		return "expired"
	case TokenInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

func (e TokenError) Error() string {
	return "token " + e.String()
}

// RateLimitedError reports too many attempts for one key.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %s", e.RetryAfter.Round(time.Second))
}
