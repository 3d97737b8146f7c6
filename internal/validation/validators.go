package validation

import (
	"strconv"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
)

// Validators holds every validator the use cases need, built once per locale.
type Validators struct {
	Catalog *Catalog

	NewUser      *Shape[domain.NewUser]
	NewUserRules *Rules[domain.NewUser]
	Credentials  *Shape[domain.Credentials]
	PublicUser   *Shape[domain.PublicUser]
	UserCriteria *Shape[domain.UserCriteria]

	NewClass      *Shape[domain.NewClass]
	NewClassRules *Rules[domain.NewClass]
	ClassCriteria *Shape[domain.ClassCriteria]

	GradeRequest      *Shape[domain.GradeRequest]
	GradeRequestRules BusinessValidator[domain.GradeRequest]
}

func New(cat *Catalog) *Validators {
	return &Validators{
		Catalog: cat,

		NewUser:      NewShape[domain.NewUser](cat).Strict(),
		NewUserRules: NewUserRules(cat),
		Credentials:  NewShape[domain.Credentials](cat),
		PublicUser:   NewShape[domain.PublicUser](cat),
		UserCriteria: NewShape[domain.UserCriteria](cat),

		NewClass:      NewShape[domain.NewClass](cat).Strict(),
		NewClassRules: NewClassRules(cat),
		ClassCriteria: NewShape[domain.ClassCriteria](cat),

		GradeRequest:      NewShape[domain.GradeRequest](cat),
		GradeRequestRules: gradeRequestRules{cat: cat},
	}
}

func NewUserRules(cat *Catalog) *Rules[domain.NewUser] {
	return NewRules[domain.NewUser](cat).
		Rule("name", MsgNameFormat, func(u domain.NewUser) bool { return ValidName(u.Name) }).
		Rule("first_surname", MsgSurnameFormat, func(u domain.NewUser) bool { return ValidSurname(u.FirstSurname) }).
		Rule("second_surname", MsgSurnameFormat, func(u domain.NewUser) bool {
			return u.SecondSurname == nil || ValidSurname(*u.SecondSurname)
		}).
		Rule("password", MsgPasswordFormat, func(u domain.NewUser) bool { return ValidPassword(u.Password) }).
		Rule("password", MsgPasswordLength, func(u domain.NewUser) bool { return len(u.Password) <= MaxPasswordBytes }).
		Rule("tuition", MsgTuitionFormat, func(u domain.NewUser) bool { return ValidTuition(u.Tuition) })
}

func NewClassRules(cat *Catalog) *Rules[domain.NewClass] {
	return NewRules[domain.NewClass](cat).
		Rule("name", MsgClassName, func(c domain.NewClass) bool { return ValidClassName(c.Name) })
}

// gradeRequestRules checks the per-variant fields of each question, which a
// flat struct tag cannot express.
type gradeRequestRules struct {
	cat *Catalog
}

func (g gradeRequestRules) Validate(req domain.GradeRequest) result.Result[struct{}, domain.FieldErrors] {
	var errs domain.FieldErrors
	seen := make(map[string]bool, len(req.Questions))

	for i, q := range req.Questions {
		path := "questions." + strconv.Itoa(i)
		if seen[q.ID] {
			errs = append(errs, g.cat.FieldError(path+".id", MsgDuplicateQuestion))
		}
		seen[q.ID] = true

		switch q.Type {
		case domain.QuestionMultipleChoice:
			if len(q.Options) < 2 {
				errs = append(errs, g.cat.FieldError(path+".options", MsgOptionsCount))
			}
			switch {
			case q.CorrectChoice == nil:
				errs = append(errs, g.cat.FieldError(path+".correct_choice", MsgChoiceRequired))
			case *q.CorrectChoice < 0 || *q.CorrectChoice >= len(q.Options):
				errs = append(errs, g.cat.FieldError(path+".correct_choice", MsgChoiceRange))
			}
		case domain.QuestionTrueFalse:
			if q.CorrectValue == nil {
				errs = append(errs, g.cat.FieldError(path+".correct_value", MsgValueRequired))
			}
		}
	}

	if len(errs) > 0 {
		return result.Err[struct{}](errs)
	}
	return result.Ok[struct{}, domain.FieldErrors](struct{}{})
}
