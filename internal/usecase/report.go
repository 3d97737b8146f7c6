package usecase

import (
	"fmt"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

type ReportUsecase struct {
	v *validation.Validators
}

func NewReportUsecase(v *validation.Validators) *ReportUsecase {
	return &ReportUsecase{v: v}
}

// Grade scores a set of answers against their questions. Open questions are
// left pending for manual review.
func (u *ReportUsecase) Grade(input any) (result.Result[domain.Report, domain.FieldErrors], error) {
	parsed := validation.Parse[domain.GradeRequest](input, u.v.GradeRequest, u.v.GradeRequestRules)
	if parsed.IsErr() {
		return result.Err[domain.Report](parsed.Error()), nil
	}
	req := parsed.Value()

	questions := make([]domain.Question, len(req.Questions))
	for i, in := range req.Questions {
		q, err := in.Narrow()
		if err != nil {
			return result.Result[domain.Report, domain.FieldErrors]{}, fmt.Errorf("narrow question %d: %w", i, err)
		}
		questions[i] = q
	}

	return result.Ok[domain.Report, domain.FieldErrors](domain.BuildReport(questions, req.Answers)), nil
}
