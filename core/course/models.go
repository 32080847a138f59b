package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimu-app/elimu/core"
)

// Course is a taught subject offering for a grade, optionally assigned to a
// teacher profile.
type Course struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Grade     string    `json:"grade"`
	TeacherID int       `json:"teacher_id,omitempty"`
	Schedule  string    `json:"schedule,omitempty"`
	Room      string    `json:"room,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name" validate:"required,min=2"`
	Grade     string `json:"grade" validate:"required"`
	TeacherID int    `json:"teacher_id"`
	Schedule  string `json:"schedule"`
	Room      string `json:"room"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, svc Service) error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(nc.Code)
}

// UpdateCourse defines what may change on an existing Course. Empty fields
// keep their current value.
type UpdateCourse struct {
	Code      string `json:"code"`
	Name      string `json:"name" validate:"omitempty,min=2"`
	Grade     string `json:"grade"`
	TeacherID int    `json:"teacher_id"`
	Schedule  string `json:"schedule"`
	Room      string `json:"room"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate, orig Course, svc Service) error {
	uc.Code = core.CleanString(uc.Code, true /* lower */)
	uc.Name = core.CleanString(uc.Name)

	if uc.Code == "" {
		uc.Code = orig.Code
	}
	if uc.Name == "" {
		uc.Name = orig.Name
	}
	if uc.Grade == "" {
		uc.Grade = orig.Grade
	}
	if uc.TeacherID == 0 {
		uc.TeacherID = orig.TeacherID
	}
	if uc.Schedule == "" {
		uc.Schedule = orig.Schedule
	}
	if uc.Room == "" {
		uc.Room = orig.Room
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(uc.Code, orig)
}

type QueryFilter struct {
	Grade     string `query:"grade"`
	TeacherID int    `query:"teacher_id"`
	Search    string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return (qf.Grade == "" || qf.Grade == "all") && qf.TeacherID == 0 && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Grade == "all" {
		qf.Grade = ""
	}
}
