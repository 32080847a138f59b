package grade

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimu-app/elimu/core"
)

// Entry is a recorded result for a student in a course over a term.
type Entry struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	CourseID   int       `json:"course_id"`
	Grade      string    `json:"grade"`
	Percentage string    `json:"percentage"`
	Term       string    `json:"term"`
	Remarks    string    `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewEntry contains information needed to record a new grade.
type NewEntry struct {
	StudentID  int    `json:"student_id" validate:"required"`
	CourseID   int    `json:"course_id" validate:"required"`
	Grade      string `json:"grade" validate:"required"`
	Percentage string `json:"percentage" validate:"required"`
	Term       string `json:"term" validate:"required"`
	Remarks    string `json:"remarks"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Grade = core.CleanString(ne.Grade)
	ne.Term = core.CleanString(ne.Term)
	return validate.Struct(ne)
}

// UpdateEntry defines what may change on an existing grade. Empty fields keep
// their current value.
type UpdateEntry struct {
	Grade      string `json:"grade"`
	Percentage string `json:"percentage"`
	Term       string `json:"term"`
	Remarks    string `json:"remarks"`
}

func (ue *UpdateEntry) Validate(validate *validator.Validate, orig Entry) error {
	ue.Grade = core.CleanString(ue.Grade)
	ue.Term = core.CleanString(ue.Term)

	if ue.Grade == "" {
		ue.Grade = orig.Grade
	}
	if ue.Percentage == "" {
		ue.Percentage = orig.Percentage
	}
	if ue.Term == "" {
		ue.Term = orig.Term
	}
	if ue.Remarks == "" {
		ue.Remarks = orig.Remarks
	}
	return validate.Struct(ue)
}

type QueryFilter struct {
	StudentID int    `query:"student_id"`
	CourseID  int    `query:"course_id"`
	Term      string `query:"term"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == 0 && qf.CourseID == 0 && qf.Term == ""
}
