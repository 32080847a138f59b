package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/notice"
)

type noticeRow struct {
	ID        int       `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row noticeRow) toNotice() notice.Notice {
	return notice.Notice{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type noticeRepository struct {
	exec core.DBExecutor
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(exec core.DBExecutor) *noticeRepository {
	return &noticeRepository{exec: exec}
}

func (repo noticeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return notice.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo noticeRepository) CreateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	q, args, err := psql.Insert("notices").
		Columns("title", "content", "created_at", "updated_at").
		Values(ntc.Title, ntc.Content, ntc.CreatedAt.UTC(), ntc.UpdatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "building notice insert")
	}
	if err = repo.exec.GetContext(ctx, &ntc.ID, q, args...); err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return ntc, nil
}

func (repo noticeRepository) QueryNotices(ctx context.Context, ordering []core.DBOrdering) ([]notice.Notice, error) {
	b := applyOrdering(psql.Select("*").From("notices"), ordering, "created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building notices query")
	}
	var rows []noticeRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}

	notices := make([]notice.Notice, 0, len(rows))
	for _, row := range rows {
		notices = append(notices, row.toNotice())
	}
	return notices, nil
}

func (repo noticeRepository) GetNoticeByID(ctx context.Context, id int) (notice.Notice, error) {
	q, args, err := psql.Select("*").From("notices").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "building notice query")
	}
	var row noticeRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return notice.Notice{}, repo.trapNoRowsErr(err, "finding notice")
	}
	return row.toNotice(), nil
}

func (repo noticeRepository) UpdateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	q, args, err := psql.Update("notices").
		Set("title", ntc.Title).
		Set("content", ntc.Content).
		Set("updated_at", ntc.UpdatedAt.UTC()).
		Where(sq.Eq{"id": ntc.ID}).
		ToSql()
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "building notice update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "updating notice")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return notice.Notice{}, notice.ErrNotFound
	}
	return ntc, nil
}

func (repo noticeRepository) DeleteNoticesByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("notices").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building notices delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting notices")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
