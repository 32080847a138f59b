package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimu-app/elimu/core"
)

// Student is an enrolled pupil record. Students do not sign in; their record
// only feeds grades, attendance and reporting.
type Student struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	RollNo    string    `json:"roll_no"`
	Grade     string    `json:"grade"`
	Section   string    `json:"section"`
	Gender    string    `json:"gender"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name    string `json:"name" validate:"required,min=2"`
	RollNo  string `json:"roll_no" validate:"required"`
	Grade   string `json:"grade" validate:"required"`
	Section string `json:"section" validate:"required"`
	Gender  string `json:"gender" validate:"required"`
	Phone   string `json:"phone" validate:"omitempty"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNo = core.CleanString(ns.RollNo)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckRollNoUniqueness(ns.RollNo)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Empty fields keep their current value.
type UpdateStudent struct {
	Name    string `json:"name" validate:"omitempty,min=2"`
	RollNo  string `json:"roll_no"`
	Grade   string `json:"grade"`
	Section string `json:"section"`
	Gender  string `json:"gender"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student, svc Service) error {
	us.Name = core.CleanString(us.Name)
	us.RollNo = core.CleanString(us.RollNo)
	us.Email = core.CleanString(us.Email, true /* lower */)

	if us.Name == "" {
		us.Name = orig.Name
	}
	if us.RollNo == "" {
		us.RollNo = orig.RollNo
	}
	if us.Grade == "" {
		us.Grade = orig.Grade
	}
	if us.Section == "" {
		us.Section = orig.Section
	}
	if us.Gender == "" {
		us.Gender = orig.Gender
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckRollNoUniqueness(us.RollNo, orig)
}

type QueryFilter struct {
	Grade  string `query:"grade"`
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return (qf.Grade == "" || qf.Grade == "all") && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Grade == "all" {
		qf.Grade = ""
	}
}
