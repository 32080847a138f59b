package contact

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimu-app/elimu/core"
)

// Message is an inquiry submitted through the public contact form.
// Reference is a public identifier returned to the submitter so follow-ups
// never expose the internal row id.
type Message struct {
	ID        int       `json:"id"`
	Reference string    `json:"reference"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	IsReplied bool      `json:"is_replied"`
	Replies   []Reply   `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Reply is a staff response to a Message; a copy is emailed to the submitter.
type Reply struct {
	ID         int       `json:"id"`
	MessageID  int       `json:"message_id"`
	Content    string    `json:"reply_content"`
	SentBy     int       `json:"sent_by"`
	SentByName string    `json:"sent_by_name,omitempty"` // joined from users
	SentAt     time.Time `json:"sent_at"`                // UTC
}

// NewMessage contains information needed to submit an inquiry.
type NewMessage struct {
	Fullname string `json:"fullname" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Message  string `json:"message" validate:"required,min=10"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Fullname = core.CleanString(nm.Fullname)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Message = core.CleanString(nm.Message)
	return validate.Struct(nm)
}

// NewReply contains information needed to respond to a Message.
type NewReply struct {
	Content string `json:"reply_content" validate:"required,min=10"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	nr.Content = core.CleanString(nr.Content)
	return validate.Struct(nr)
}

// Filters
const (
	FilterAll       = "all"
	FilterUnread    = "unread"
	FilterReplied   = "replied"
	FilterUnreplied = "unreplied"
)

type QueryFilter struct {
	Filter string `query:"filter"` // all | unread | replied | unreplied
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return (qf.Filter == "" || qf.Filter == FilterAll) && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Filter == "" {
		qf.Filter = FilterAll
	}
}
