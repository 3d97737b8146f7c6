package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
)

// BusinessValidator checks domain rules on an already well-typed value.
type BusinessValidator[T any] interface {
	Validate(v T) result.Result[struct{}, domain.FieldErrors]
}

type rule[T any] struct {
	field string
	key   string
	ok    func(T) bool
}

// Rules is a BusinessValidator assembled from per-field predicates. Every
// rule runs; a field reports only its first failure.
type Rules[T any] struct {
	cat   *Catalog
	rules []rule[T]
}

func NewRules[T any](cat *Catalog) *Rules[T] {
	return &Rules[T]{cat: cat}
}

// Rule adds a predicate; when ok returns false, field fails with the
// catalog message for key.
func (r *Rules[T]) Rule(field, key string, ok func(T) bool) *Rules[T] {
	r.rules = append(r.rules, rule[T]{field: field, key: key, ok: ok})
	return r
}

func (r *Rules[T]) Validate(v T) result.Result[struct{}, domain.FieldErrors] {
	var errs domain.FieldErrors
	for _, rl := range r.rules {
		if errs.Has(rl.field) {
			continue
		}
		if !rl.ok(v) {
			errs = append(errs, r.cat.FieldError(rl.field, rl.key))
		}
	}
	if len(errs) > 0 {
		return result.Err[struct{}](errs)
	}
	return result.Ok[struct{}, domain.FieldErrors](struct{}{})
}

// Parse runs the type validator and, when it passes, the business validator.
func Parse[T any](input any, tv TypeValidator[T], bv BusinessValidator[T]) result.Result[T, domain.FieldErrors] {
	r := tv.Validate(input)
	if r.IsErr() || bv == nil {
		return r
	}
	v := r.Value()
	if br := bv.Validate(v); br.IsErr() {
		return result.Err[T](br.Error())
	}
	return r
}

const upperLetters = `A-ZÁÉÍÓÚÜÑ`

var (
	tuitionPattern = regexp.MustCompile(`^[AP]\.[0-9]{6}$`)
	namePattern    = regexp.MustCompile(`^[` + upperLetters + `]+( [` + upperLetters + `]+)*$`)
	surnamePattern = regexp.MustCompile(`^((DE|DEL|DE LA|DE LAS|DE LOS) )?[` + upperLetters + `]+$`)
)

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not runes.
const MaxPasswordBytes = 72

// ValidPassword requires at least 8 characters with a lowercase letter, an
// uppercase letter and a character that is neither a letter nor a digit.
func ValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < 8 {
		return false
	}
	var lower, upper, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return lower && upper && special
}

// ValidTuition accepts A.dddddd (student) and P.dddddd (teacher).
func ValidTuition(s string) bool { return tuitionPattern.MatchString(s) }

// ValidName accepts one or more upper-case words separated by single spaces.
func ValidName(s string) bool { return namePattern.MatchString(s) }

// ValidSurname accepts a single upper-case word, optionally preceded by a
// Spanish particle such as DE or DE LA.
func ValidSurname(s string) bool { return surnamePattern.MatchString(s) }

func ValidClassName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 3 && n <= 80
}
