package contact

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/user"
)

// ErrNotFound is returned when no contact message matches.
var ErrNotFound = errors.New("contact message not found")

type (
	Repository interface {
		CreateMessage(ctx context.Context, msg Message) (Message, error)
		// QueryMessages returns messages with their replies, newest first.
		QueryMessages(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Message, error)
		GetMessageByID(ctx context.Context, id int) (Message, error)
		MarkMessageRead(ctx context.Context, id int) error
		CreateReply(ctx context.Context, rpl Reply) (Reply, error)
		DeleteMessagesByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		Submit(ctx context.Context, nm NewMessage) (Message, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Message, error)
		GetByID(ctx context.Context, id int) (Message, error)
		MarkRead(ctx context.Context, id int) error
		Reply(ctx context.Context, msgID int, nr NewReply, sender user.User) (Reply, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	return &service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

// Submit stores a new inquiry and notifies the school inbox.
func (svc *service) Submit(ctx context.Context, nm NewMessage) (Message, error) {
	msg := Message{
		Reference: uuid.New().String(),
		Fullname:  nm.Fullname,
		Email:     nm.Email,
		Message:   nm.Message,
		CreatedAt: time.Now().UTC(),
	}
	msg, err := svc.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Message{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.ContactEmail}},
		Subject: "New Contact Message",
		BodyStr: fmt.Sprintf(
			"New contact form submission (ref %s)\n\nName: %s\nEmail: %s\n\nMessage:\n%s\n",
			msg.Reference, msg.Fullname, msg.Email, msg.Message,
		),
	})
	return msg, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Message, error) {
	return svc.repo.QueryMessages(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Message, error) {
	return svc.repo.GetMessageByID(ctx, id)
}

func (svc *service) MarkRead(ctx context.Context, id int) error {
	if _, err := svc.repo.GetMessageByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.MarkMessageRead(ctx, id)
}

// Reply stores a staff response, marks the message replied and emails a copy
// to the original submitter.
func (svc *service) Reply(ctx context.Context, msgID int, nr NewReply, sender user.User) (Reply, error) {
	msg, err := svc.repo.GetMessageByID(ctx, msgID)
	if err != nil {
		return Reply{}, err
	}

	rpl := Reply{
		MessageID: msg.ID,
		Content:   nr.Content,
		SentBy:    sender.ID,
		SentAt:    time.Now().UTC(),
	}
	rpl, err = svc.repo.CreateReply(ctx, rpl)
	if err != nil {
		return Reply{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: msg.Fullname, Address: msg.Email}},
		Subject: "Response to Your Inquiry",
		BodyStr: fmt.Sprintf(
			"Dear %s,\n\nThank you for contacting us. Here is our response to your inquiry:\n\n%s\n\nBest regards,\n%s",
			msg.Fullname, nr.Content, svc.conf.AppName,
		),
	})
	return rpl, nil
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteMessagesByID(ctx, ids...)
	return err
}
