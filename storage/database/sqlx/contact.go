package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/contact"
)

type messageRow struct {
	ID        int       `db:"id"`
	Reference string    `db:"reference"`
	Fullname  string    `db:"fullname"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	IsRead    bool      `db:"is_read"`
	IsReplied bool      `db:"is_replied"`
	CreatedAt time.Time `db:"created_at"`
}

func (row messageRow) toMessage() contact.Message {
	return contact.Message{
		ID:        row.ID,
		Reference: row.Reference,
		Fullname:  row.Fullname,
		Email:     row.Email,
		Message:   row.Message,
		IsRead:    row.IsRead,
		IsReplied: row.IsReplied,
		CreatedAt: row.CreatedAt,
	}
}

// replyCols joins the sender user row for the display name.
var replyCols = []string{"r.id", "r.message_id", "r.reply_content", "r.sent_by", "r.sent_at", "u.name"}

type replyRow struct {
	ID        int         `db:"id"`
	MessageID int         `db:"message_id"`
	Content   string      `db:"reply_content"`
	SentBy    null.Int    `db:"sent_by"`
	SentAt    time.Time   `db:"sent_at"`
	Name      null.String `db:"name"`
}

func (row replyRow) toReply() contact.Reply {
	return contact.Reply{
		ID:         row.ID,
		MessageID:  row.MessageID,
		Content:    row.Content,
		SentBy:     row.SentBy.Int,
		SentByName: row.Name.String,
		SentAt:     row.SentAt,
	}
}

type contactRepository struct {
	exec core.DBExecutor
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(exec core.DBExecutor) *contactRepository {
	return &contactRepository{exec: exec}
}

func (repo contactRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return contact.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo contactRepository) CreateMessage(ctx context.Context, msg contact.Message) (contact.Message, error) {
	q, args, err := psql.Insert("contact_messages").
		Columns("reference", "fullname", "email", "message", "is_read", "is_replied", "created_at").
		Values(msg.Reference, msg.Fullname, msg.Email, msg.Message, msg.IsRead, msg.IsReplied, msg.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return contact.Message{}, errors.Wrap(err, "building message insert")
	}
	if err = repo.exec.GetContext(ctx, &msg.ID, q, args...); err != nil {
		return contact.Message{}, errors.Wrap(err, "inserting message")
	}
	return msg, nil
}

func (repo contactRepository) QueryMessages(ctx context.Context, filter *contact.QueryFilter, ordering []core.DBOrdering) ([]contact.Message, error) {
	b := psql.Select("*").From("contact_messages")

	if filter != nil {
		switch filter.Filter {
		case contact.FilterUnread:
			b = b.Where(sq.Eq{"is_read": false})
		case contact.FilterReplied:
			b = b.Where(sq.Eq{"is_replied": true})
		case contact.FilterUnreplied:
			b = b.Where(sq.Eq{"is_replied": false})
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"fullname": val}, sq.ILike{"email": val}, sq.ILike{"message": val}})
		}
	}
	b = applyOrdering(b, ordering, "created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building messages query")
	}
	var rows []messageRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}

	msgs := make([]contact.Message, 0, len(rows))
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.toMessage())
		ids = append(ids, row.ID)
	}
	if err = repo.attachReplies(ctx, msgs, ids); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (repo contactRepository) attachReplies(ctx context.Context, msgs []contact.Message, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := psql.Select(replyCols...).
		From("message_replies r").
		LeftJoin("users u ON u.id = r.sent_by").
		Where(sq.Eq{"r.message_id": ids}).
		OrderBy("r.sent_at ASC").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building replies query")
	}
	var rows []replyRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return errors.Wrap(err, "querying replies")
	}

	byMsg := make(map[int][]contact.Reply, len(msgs))
	for _, row := range rows {
		byMsg[row.MessageID] = append(byMsg[row.MessageID], row.toReply())
	}
	for i := range msgs {
		msgs[i].Replies = byMsg[msgs[i].ID]
	}
	return nil
}

func (repo contactRepository) GetMessageByID(ctx context.Context, id int) (contact.Message, error) {
	q, args, err := psql.Select("*").From("contact_messages").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return contact.Message{}, errors.Wrap(err, "building message query")
	}
	var row messageRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return contact.Message{}, repo.trapNoRowsErr(err, "finding message")
	}

	msgs := []contact.Message{row.toMessage()}
	if err = repo.attachReplies(ctx, msgs, []int{row.ID}); err != nil {
		return contact.Message{}, err
	}
	return msgs[0], nil
}

func (repo contactRepository) MarkMessageRead(ctx context.Context, id int) error {
	q, args, err := psql.Update("contact_messages").Set("is_read", true).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building message update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "marking message read")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (repo contactRepository) CreateReply(ctx context.Context, rpl contact.Reply) (contact.Reply, error) {
	q, args, err := psql.Insert("message_replies").
		Columns("message_id", "reply_content", "sent_by", "sent_at").
		Values(rpl.MessageID, rpl.Content, null.NewInt(rpl.SentBy, rpl.SentBy != 0), rpl.SentAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return contact.Reply{}, errors.Wrap(err, "building reply insert")
	}
	if err = repo.exec.GetContext(ctx, &rpl.ID, q, args...); err != nil {
		return contact.Reply{}, errors.Wrap(err, "inserting reply")
	}

	q, args, err = psql.Update("contact_messages").
		Set("is_replied", true).
		Where(sq.Eq{"id": rpl.MessageID}).
		ToSql()
	if err != nil {
		return contact.Reply{}, errors.Wrap(err, "building message update")
	}
	if _, err = repo.exec.ExecContext(ctx, q, args...); err != nil {
		return contact.Reply{}, errors.Wrap(err, "marking message replied")
	}
	return rpl, nil
}

func (repo contactRepository) DeleteMessagesByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("contact_messages").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building messages delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting messages")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
