package domain

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	QuestionOpen           QuestionType = "open"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// Question is a sealed union; only the variants in this file implement it.
// Variant-specific fields are reachable only after a type switch.
type Question interface {
	QuestionID() string
	MaxPoints() int
	isQuestion()
}

type OpenQuestion struct {
	ID     string
	Prompt string
	Points int
}

type MultipleChoiceQuestion struct {
	ID      string
	Prompt  string
	Points  int
	Options []string
	Correct int // index into Options
}

type TrueFalseQuestion struct {
	ID      string
	Prompt  string
	Points  int
	Correct bool
}

func (q OpenQuestion) QuestionID() string           { return q.ID }
func (q MultipleChoiceQuestion) QuestionID() string { return q.ID }
func (q TrueFalseQuestion) QuestionID() string      { return q.ID }

func (q OpenQuestion) MaxPoints() int           { return q.Points }
func (q MultipleChoiceQuestion) MaxPoints() int { return q.Points }
func (q TrueFalseQuestion) MaxPoints() int      { return q.Points }

func (OpenQuestion) isQuestion()           {}
func (MultipleChoiceQuestion) isQuestion() {}
func (TrueFalseQuestion) isQuestion()      {}

// QuestionInput is the flat wire shape of a question, tagged by Type.
type QuestionInput struct {
	Type          QuestionType `json:"type"           validate:"required,oneof=open multiple_choice true_false"`
	ID            string       `json:"id"             validate:"required"`
	Prompt        string       `json:"prompt"         validate:"required"`
	Points        int          `json:"points"         validate:"min=0,max=100" coerce:"number"`
	Options       []string     `json:"options"`
	CorrectChoice *int         `json:"correct_choice" coerce:"number"`
	CorrectValue  *bool        `json:"correct_value"`
}

// Narrow converts the wire shape to its variant. Callers validate variant
// fields before narrowing.
func (in QuestionInput) Narrow() (Question, error) {
	switch in.Type {
	case QuestionOpen:
		return OpenQuestion{ID: in.ID, Prompt: in.Prompt, Points: in.Points}, nil
	case QuestionMultipleChoice:
		if in.CorrectChoice == nil {
			return nil, fmt.Errorf("question %s: missing correct choice", in.ID)
		}
		return MultipleChoiceQuestion{
			ID: in.ID, Prompt: in.Prompt, Points: in.Points,
			Options: in.Options, Correct: *in.CorrectChoice,
		}, nil
	case QuestionTrueFalse:
		if in.CorrectValue == nil {
			return nil, fmt.Errorf("question %s: missing correct value", in.ID)
		}
		return TrueFalseQuestion{ID: in.ID, Prompt: in.Prompt, Points: in.Points, Correct: *in.CorrectValue}, nil
	}
	return nil, fmt.Errorf("question %s: unknown type %q", in.ID, in.Type)
}

// Answer carries whichever field matches its question's variant.
type Answer struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Text       *string `json:"text"`
	Choice     *int    `json:"choice"      coerce:"number"`
	Value      *bool   `json:"value"`
}

type GradeRequest struct {
	Questions []QuestionInput `json:"questions" validate:"required,min=1,max=200,dive"`
	Answers   []Answer        `json:"answers"   validate:"max=200,dive"`
}

// Grade is a sealed union of grading outcomes.
type Grade interface {
	GradedQuestion() string
	isGrade()
}

type ScoredGrade struct {
	QuestionID string
	Points     int
	MaxPoints  int
}

// PendingGrade is an answer that needs manual review.
type PendingGrade struct {
	QuestionID string
	MaxPoints  int
	Text       string
}

func (g ScoredGrade) GradedQuestion() string  { return g.QuestionID }
func (g PendingGrade) GradedQuestion() string { return g.QuestionID }

func (ScoredGrade) isGrade()  {}
func (PendingGrade) isGrade() {}

func (g ScoredGrade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		QuestionID string `json:"question_id"`
		Points     int    `json:"points"`
		MaxPoints  int    `json:"max_points"`
	}{"scored", g.QuestionID, g.Points, g.MaxPoints})
}

func (g PendingGrade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		QuestionID string `json:"question_id"`
		MaxPoints  int    `json:"max_points"`
		Text       string `json:"text"`
	}{"pending", g.QuestionID, g.MaxPoints, g.Text})
}

// GradeAnswer scores one answer. A nil answer scores zero except for open
// questions, which stay pending with empty text.
func GradeAnswer(q Question, a *Answer) Grade {
	switch q := q.(type) {
	case OpenQuestion:
		text := ""
		if a != nil && a.Text != nil {
			text = *a.Text
		}
		return PendingGrade{QuestionID: q.ID, MaxPoints: q.Points, Text: text}
	case MultipleChoiceQuestion:
		pts := 0
		if a != nil && a.Choice != nil && *a.Choice == q.Correct {
			pts = q.Points
		}
		return ScoredGrade{QuestionID: q.ID, Points: pts, MaxPoints: q.Points}
	case TrueFalseQuestion:
		pts := 0
		if a != nil && a.Value != nil && *a.Value == q.Correct {
			pts = q.Points
		}
		return ScoredGrade{QuestionID: q.ID, Points: pts, MaxPoints: q.Points}
	default:
		panic(fmt.Sprintf("domain: unhandled question variant %T", q))
	}
}

type Report struct {
	Score    int     `json:"score"`
	MaxScore int     `json:"max_score"`
	Pending  int     `json:"pending"`
	Grades   []Grade `json:"grades"`
}

// BuildReport grades every question against the answer with the same
// question ID. Unmatched answers are ignored.
func BuildReport(questions []Question, answers []Answer) Report {
	byID := make(map[string]*Answer, len(answers))
	for i := range answers {
		byID[answers[i].QuestionID] = &answers[i]
	}

	report := Report{Grades: make([]Grade, 0, len(questions))}
	for _, q := range questions {
		g := GradeAnswer(q, byID[q.QuestionID()])
		report.MaxScore += q.MaxPoints()
		switch g := g.(type) {
		case ScoredGrade:
			report.Score += g.Points
		case PendingGrade:
			report.Pending++
		}
		report.Grades = append(report.Grades, g)
	}
	return report
}
