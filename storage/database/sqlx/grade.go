package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/grade"
)

type gradeRow struct {
	ID         int         `db:"id"`
	StudentID  int         `db:"student_id"`
	CourseID   int         `db:"course_id"`
	Grade      string      `db:"grade"`
	Percentage string      `db:"percentage"`
	Term       string      `db:"term"`
	Remarks    null.String `db:"remarks"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (row gradeRow) toEntry() grade.Entry {
	return grade.Entry{
		ID:         row.ID,
		StudentID:  row.StudentID,
		CourseID:   row.CourseID,
		Grade:      row.Grade,
		Percentage: row.Percentage,
		Term:       row.Term,
		Remarks:    row.Remarks.String,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type gradeRepository struct {
	exec core.DBExecutor
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{exec: exec}
}

func (repo gradeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grade.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo gradeRepository) CreateEntry(ctx context.Context, ent grade.Entry) (grade.Entry, error) {
	q, args, err := psql.Insert("grades").
		Columns("student_id", "course_id", "grade", "percentage", "term", "remarks", "created_at", "updated_at").
		Values(
			ent.StudentID, ent.CourseID, ent.Grade, ent.Percentage, ent.Term,
			null.NewString(ent.Remarks, ent.Remarks != ""),
			ent.CreatedAt.UTC(), ent.UpdatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return grade.Entry{}, errors.Wrap(err, "building grade insert")
	}
	if err = repo.exec.GetContext(ctx, &ent.ID, q, args...); err != nil {
		return grade.Entry{}, errors.Wrap(err, "inserting grade")
	}
	return ent, nil
}

func (repo gradeRepository) QueryEntries(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Entry, error) {
	b := psql.Select("*").From("grades")

	if filter != nil {
		if filter.StudentID != 0 {
			b = b.Where(sq.Eq{"student_id": filter.StudentID})
		}
		if filter.CourseID != 0 {
			b = b.Where(sq.Eq{"course_id": filter.CourseID})
		}
		if filter.Term != "" {
			b = b.Where(sq.Eq{"term": filter.Term})
		}
	}
	b = applyOrdering(b, ordering, "created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building grades query")
	}
	var rows []gradeRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}

	entries := make([]grade.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

func (repo gradeRepository) GetEntryByID(ctx context.Context, id int) (grade.Entry, error) {
	q, args, err := psql.Select("*").From("grades").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return grade.Entry{}, errors.Wrap(err, "building grade query")
	}
	var row gradeRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return grade.Entry{}, repo.trapNoRowsErr(err, "finding grade")
	}
	return row.toEntry(), nil
}

func (repo gradeRepository) UpdateEntry(ctx context.Context, ent grade.Entry) (grade.Entry, error) {
	q, args, err := psql.Update("grades").
		Set("grade", ent.Grade).
		Set("percentage", ent.Percentage).
		Set("term", ent.Term).
		Set("remarks", null.NewString(ent.Remarks, ent.Remarks != "")).
		Set("updated_at", ent.UpdatedAt.UTC()).
		Where(sq.Eq{"id": ent.ID}).
		ToSql()
	if err != nil {
		return grade.Entry{}, errors.Wrap(err, "building grade update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return grade.Entry{}, errors.Wrap(err, "updating grade")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return grade.Entry{}, grade.ErrNotFound
	}
	return ent, nil
}

func (repo gradeRepository) DeleteEntriesByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("grades").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building grades delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting grades")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
