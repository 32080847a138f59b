package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// Record is one student's attendance for one calendar day. There is at most
// one record per student and date; marking again overwrites the status.
type Record struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Status    string    `json:"status"`
	Time      string    `json:"time,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewRecord contains information needed to mark attendance.
type NewRecord struct {
	StudentID int    `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,dateonly"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
	Time      string `json:"time"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

type QueryFilter struct {
	Date      string `query:"date"`
	StudentID int    `query:"student_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Date == "" && qf.StudentID == 0
}
