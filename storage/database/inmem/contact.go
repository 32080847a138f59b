package inmemdb

import (
	"context"
	"sort"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/contact"
)

var (
	messagePK int
	replyPK   int
)

type contactRepository struct {
	db    *messageTable
	users *userTable
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db *DB) *contactRepository {
	return &contactRepository{db: db.message, users: db.user}
}

// replies returns the message's replies oldest first, with sender names
// hydrated from the user table.
func (repo *contactRepository) replies(msgID int) []contact.Reply {
	var replies []contact.Reply
	for _, rpl := range repo.db.replies {
		if rpl.MessageID != msgID {
			continue
		}
		hydrated := *rpl
		repo.users.RLock()
		if usr, ok := repo.users.table[hydrated.SentBy]; ok {
			hydrated.SentByName = usr.Name
		}
		repo.users.RUnlock()
		replies = append(replies, hydrated)
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies
}

func (repo *contactRepository) query() []contact.Message {
	msgs := make([]contact.Message, 0, len(repo.db.table))
	for _, msg := range repo.db.table {
		hydrated := *msg
		hydrated.Replies = repo.replies(msg.ID)
		msgs = append(msgs, hydrated)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID > msgs[j].ID })
	return msgs
}

func (repo *contactRepository) CreateMessage(ctx context.Context, msg contact.Message) (contact.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	messagePK++
	msg.ID = messagePK
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *contactRepository) QueryMessages(ctx context.Context, filter *contact.QueryFilter, ordering []core.DBOrdering) ([]contact.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := repo.query()
	if filter == nil || filter.IsEmpty() {
		return msgs, nil
	}

	matches := make([]contact.Message, 0, len(msgs))
	for _, msg := range msgs {
		switch filter.Filter {
		case contact.FilterUnread:
			if msg.IsRead {
				continue
			}
		case contact.FilterReplied:
			if !msg.IsReplied {
				continue
			}
		case contact.FilterUnreplied:
			if msg.IsReplied {
				continue
			}
		}
		if filter.Search != "" && !containsFold(filter.Search, msg.Fullname, msg.Email, msg.Message) {
			continue
		}
		matches = append(matches, msg)
	}
	return matches, nil
}

func (repo *contactRepository) GetMessageByID(ctx context.Context, id int) (contact.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if msg, ok := repo.db.table[id]; ok {
		hydrated := *msg
		hydrated.Replies = repo.replies(id)
		return hydrated, nil
	}
	return contact.Message{}, contact.ErrNotFound
}

func (repo *contactRepository) MarkMessageRead(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	msg, ok := repo.db.table[id]
	if !ok {
		return contact.ErrNotFound
	}
	msg.IsRead = true
	return nil
}

func (repo *contactRepository) CreateReply(ctx context.Context, rpl contact.Reply) (contact.Reply, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	msg, ok := repo.db.table[rpl.MessageID]
	if !ok {
		return contact.Reply{}, contact.ErrNotFound
	}

	replyPK++
	rpl.ID = replyPK
	repo.db.replies[rpl.ID] = &rpl
	msg.IsReplied = true
	return rpl, nil
}

func (repo *contactRepository) DeleteMessagesByID(ctx context.Context, ids ...int) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; !ok {
			continue
		}
		delete(repo.db.table, id)
		for rplID, rpl := range repo.db.replies {
			if rpl.MessageID == id {
				delete(repo.db.replies, rplID)
			}
		}
		cnt++
	}
	return cnt, nil
}
