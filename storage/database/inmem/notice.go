package inmemdb

import (
	"context"
	"sort"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/notice"
)

var noticePK int

type noticeRepository struct {
	db *noticeTable
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *DB) *noticeRepository {
	return &noticeRepository{db: db.notice}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	noticePK++
	ntc.ID = noticePK
	repo.db.table[ntc.ID] = &ntc
	return ntc, nil
}

func (repo *noticeRepository) QueryNotices(ctx context.Context, ordering []core.DBOrdering) ([]notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.db.table))
	for _, ntc := range repo.db.table {
		notices = append(notices, *ntc)
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].ID > notices[j].ID })
	return notices, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id int) (notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ntc, ok := repo.db.table[id]; ok {
		return *ntc, nil
	}
	return notice.Notice{}, notice.ErrNotFound
}

func (repo *noticeRepository) UpdateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origNtc, ok := repo.db.table[ntc.ID]
	if !ok {
		return notice.Notice{}, notice.ErrNotFound
	}
	ntc.CreatedAt = origNtc.CreatedAt
	repo.db.table[ntc.ID] = &ntc
	return ntc, nil
}

func (repo *noticeRepository) DeleteNoticesByID(ctx context.Context, ids ...int) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
