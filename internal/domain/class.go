package domain

import "time"

type Class struct {
	ID        string
	Name      string
	Subject   string
	Code      string // short join code, generated on create
	TeacherID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewClass struct {
	Name    string `json:"name"    validate:"required"`
	Subject string `json:"subject" validate:"required,max=80"`
}

type PublicClass struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Code      string `json:"code"`
	TeacherID string `json:"teacher_id"`
}

func (c *Class) Public() PublicClass {
	return PublicClass{
		ID:        c.ID,
		Name:      c.Name,
		Subject:   c.Subject,
		Code:      c.Code,
		TeacherID: c.TeacherID,
	}
}

type ClassCriteria struct {
	TeacherID string `json:"teacher_id,omitempty" validate:"omitempty,uuid"`
	Page      int    `json:"page"                 validate:"min=0,max=1000000" coerce:"number"`
	PerPage   int    `json:"per_page"             validate:"min=0,max=100"     coerce:"number"`
}
