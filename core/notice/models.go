package notice

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimu-app/elimu/core"
)

// Notice is an announcement shown on the marketing site and the dashboard.
type Notice struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewNotice contains information needed to publish a Notice.
type NewNotice struct {
	Title   string `json:"title" validate:"required,min=2"`
	Content string `json:"content" validate:"required"`
}

func (nn *NewNotice) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	return validate.Struct(nn)
}

// UpdateNotice defines what may change on an existing Notice. Empty fields
// keep their current value.
type UpdateNotice struct {
	Title   string `json:"title" validate:"omitempty,min=2"`
	Content string `json:"content"`
}

func (un *UpdateNotice) Validate(validate *validator.Validate, orig Notice) error {
	un.Title = core.CleanString(un.Title)
	if un.Title == "" {
		un.Title = orig.Title
	}
	if un.Content == "" {
		un.Content = orig.Content
	}
	return validate.Struct(un)
}
