package validation_test

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

func TestValidPassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Abcdef1!", true},
		{"contraseñA#", true},
		{"Ab1!", false},
		{"abcdefg!", false},
		{"ABCDEFG!", false},
		{"Abcdefgh", false},
		{"Abcdefg1", false},
		{"Abcdef g", false},
	}
	for _, tt := range tests {
		if got := validation.ValidPassword(tt.in); got != tt.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidTuition(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"A.123456", true},
		{"P.000001", true},
		{"a.123456", false},
		{"X.123456", false},
		{"A123456", false},
		{"A.12345", false},
		{"A.1234567", false},
	}
	for _, tt := range tests {
		if got := validation.ValidTuition(tt.in); got != tt.want {
			t.Errorf("ValidTuition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidSurname(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"GARCIA", true},
		{"MUÑOZ", true},
		{"DE LEON", true},
		{"DEL RIO", true},
		{"DE LA CRUZ", true},
		{"DE LAS CASAS", true},
		{"DE LOS SANTOS", true},
		{"Garcia", false},
		{"GARCIA LOPEZ", false},
		{"VAN DYKE", false},
		{"DE", true},
		{"DE  LEON", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validation.ValidSurname(tt.in); got != tt.want {
			t.Errorf("ValidSurname(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidName(t *testing.T) {
	if !validation.ValidName("JUAN CARLOS") {
		t.Error("two upper-case words should pass")
	}
	if validation.ValidName("Juan") || validation.ValidName("JUAN  CARLOS") || validation.ValidName("") {
		t.Error("mixed case, double spaces and empty names should fail")
	}
}

func TestNewUserRules_BatchesEveryViolation(t *testing.T) {
	second := "Lopez"
	r := validation.NewUserRules(cat).Validate(domain.NewUser{
		Name:          "juan",
		FirstSurname:  "perez",
		SecondSurname: &second,
		Email:         "juan@example.com",
		Password:      "short",
		Tuition:       "B.1",
	})
	if r.IsOk() {
		t.Fatal("expected errors")
	}

	got := r.Error().Fields()
	want := []string{"name", "first_surname", "second_surname", "password", "tuition"}
	if !slices.Equal(got, want) {
		t.Errorf("fields = %v, want %v", got, want)
	}
}

func TestNewUserRules_Valid(t *testing.T) {
	r := validation.NewUserRules(cat).Validate(domain.NewUser{
		Name:         "ANA",
		FirstSurname: "DE LA ROSA",
		Email:        "ana@example.com",
		Password:     "Abcdef1!",
		Tuition:      "P.654321",
	})
	if r.IsErr() {
		t.Fatalf("unexpected errors: %v", r.Error())
	}
}

func TestNewUserRules_PasswordLengthCountsBytes(t *testing.T) {
	nu := domain.NewUser{
		Name:         "ANA",
		FirstSurname: "ROSA",
		Email:        "ana@example.com",
		Password:     "Aa!" + strings.Repeat("ñ", 40),
		Tuition:      "A.000002",
	}
	if utf8.RuneCountInString(nu.Password) > validation.MaxPasswordBytes {
		t.Fatalf("fixture should fit in %d runes", validation.MaxPasswordBytes)
	}

	r := validation.NewUserRules(cat).Validate(nu)
	if r.IsOk() {
		t.Fatal("expected a password error")
	}
	errs := r.Error()
	if len(errs) != 1 || errs[0].Field != "password" || errs[0].Message != cat.Message(validation.MsgPasswordLength) {
		t.Errorf("errors = %v", errs)
	}

	nu.Password = "Aa!" + strings.Repeat("x", validation.MaxPasswordBytes-3)
	if r := validation.NewUserRules(cat).Validate(nu); r.IsErr() {
		t.Errorf("%d bytes should pass: %v", validation.MaxPasswordBytes, r.Error())
	}
}

func TestRules_OneErrorPerField(t *testing.T) {
	rules := validation.NewRules[string](cat).
		Rule("value", validation.MsgNameFormat, func(string) bool { return false }).
		Rule("value", validation.MsgPasswordFormat, func(string) bool { return false }).
		Rule("other", validation.MsgTuitionFormat, func(string) bool { return false })

	r := rules.Validate("x")
	if r.IsOk() {
		t.Fatal("expected errors")
	}
	errs := r.Error()
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	if errs[0].Message != cat.Message(validation.MsgNameFormat) {
		t.Errorf("first failure should win, got %q", errs[0].Message)
	}
}

func TestParse_BusinessRulesRunAfterShape(t *testing.T) {
	v := validation.New(cat)

	r := validation.Parse[domain.NewClass](map[string]any{"name": "AB", "subject": "math"}, v.NewClass, v.NewClassRules)
	if r.IsOk() || !r.Error().Has("name") {
		t.Fatalf("want name length error, got %+v", r)
	}

	r = validation.Parse[domain.NewClass](map[string]any{"subject": 3}, v.NewClass, v.NewClassRules)
	if r.IsOk() {
		t.Fatal("expected shape errors")
	}
	if got := r.Error().Fields(); !slices.Equal(got, []string{"subject", "name"}) {
		t.Errorf("fields = %v, want shape errors only", got)
	}
}

func TestGradeRequestRules(t *testing.T) {
	v := validation.New(cat)
	one := 1
	five := 5

	r := v.GradeRequestRules.Validate(domain.GradeRequest{Questions: []domain.QuestionInput{
		{Type: domain.QuestionMultipleChoice, ID: "q1", Options: []string{"only"}, CorrectChoice: &five},
		{Type: domain.QuestionTrueFalse, ID: "q2"},
		{Type: domain.QuestionOpen, ID: "q1"},
		{Type: domain.QuestionMultipleChoice, ID: "q4", Options: []string{"a", "b"}, CorrectChoice: &one},
	}})
	if r.IsOk() {
		t.Fatal("expected errors")
	}

	want := []string{
		"questions.0.options",
		"questions.0.correct_choice",
		"questions.1.correct_value",
		"questions.2.id",
	}
	if got := r.Error().Fields(); !slices.Equal(got, want) {
		t.Errorf("fields = %v, want %v", got, want)
	}
}
