package notice

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
)

// ErrNotFound is returned when no notice matches.
var ErrNotFound = errors.New("notice not found")

type (
	Repository interface {
		CreateNotice(ctx context.Context, ntc Notice) (Notice, error)
		// QueryNotices returns notices newest first unless an ordering is given.
		QueryNotices(ctx context.Context, ordering []core.DBOrdering) ([]Notice, error)
		GetNoticeByID(ctx context.Context, id int) (Notice, error)
		UpdateNotice(ctx context.Context, ntc Notice) (Notice, error)
		DeleteNoticesByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		Create(ctx context.Context, nn NewNotice) (Notice, error)
		Query(ctx context.Context, ordering []core.DBOrdering) ([]Notice, error)
		GetByID(ctx context.Context, id int) (Notice, error)
		Update(ctx context.Context, id int, un UpdateNotice) (Notice, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nn NewNotice) (Notice, error) {
	now := time.Now().UTC()
	ntc := Notice{
		Title:     nn.Title,
		Content:   nn.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateNotice(ctx, ntc)
}

func (svc *service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Notice, error) {
	return svc.repo.QueryNotices(ctx, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Notice, error) {
	return svc.repo.GetNoticeByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id int, un UpdateNotice) (Notice, error) {
	ntc, err := svc.repo.GetNoticeByID(ctx, id)
	if err != nil {
		return Notice{}, err
	}
	ntc.Title = un.Title
	ntc.Content = un.Content
	ntc.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNotice(ctx, ntc)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteNoticesByID(ctx, ids...)
	return err
}
