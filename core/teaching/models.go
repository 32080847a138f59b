package teaching

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Teacher is the staff profile attached to a dashboard account. The display
// name and email live on the linked user row.
type Teacher struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Name          string    `json:"name,omitempty"`  // joined from users
	Email         string    `json:"email,omitempty"` // joined from users
	Subject       string    `json:"subject"`
	Qualification string    `json:"qualification"`
	Experience    string    `json:"experience,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewTeacher contains information needed to create a new staff profile.
type NewTeacher struct {
	UserID        int    `json:"user_id" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Qualification string `json:"qualification" validate:"required"`
	Experience    string `json:"experience"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	return validate.Struct(nt)
}

// UpdateTeacher defines what may change on an existing profile. Empty fields
// keep their current value.
type UpdateTeacher struct {
	Subject       string `json:"subject"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate, orig Teacher) error {
	if ut.Subject == "" {
		ut.Subject = orig.Subject
	}
	if ut.Qualification == "" {
		ut.Qualification = orig.Qualification
	}
	if ut.Experience == "" {
		ut.Experience = orig.Experience
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	Subject string `query:"subject"`
	Search  string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Subject == "" && qf.Search == ""
}
