package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/teaching"
)

// teacherCols joins the linked user row for the display name and email.
var teacherCols = []string{
	"t.id", "t.user_id", "t.subject", "t.qualification", "t.experience",
	"t.created_at", "t.updated_at", "u.name", "u.email",
}

type teacherRow struct {
	ID            int         `db:"id"`
	UserID        int         `db:"user_id"`
	Subject       string      `db:"subject"`
	Qualification string      `db:"qualification"`
	Experience    null.String `db:"experience"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
	Name          string      `db:"name"`
	Email         string      `db:"email"`
}

func (row teacherRow) toTeacher() teaching.Teacher {
	return teaching.Teacher{
		ID:            row.ID,
		UserID:        row.UserID,
		Name:          row.Name,
		Email:         row.Email,
		Subject:       row.Subject,
		Qualification: row.Qualification,
		Experience:    row.Experience.String,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

type teacherRepository struct {
	exec core.DBExecutor
}

var _ teaching.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(exec core.DBExecutor) *teacherRepository {
	return &teacherRepository{exec: exec}
}

func (repo teacherRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return teaching.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo teacherRepository) selectTeachers() sq.SelectBuilder {
	return psql.Select(teacherCols...).From("teachers t").Join("users u ON u.id = t.user_id")
}

func (repo teacherRepository) CheckUserUniqueness(ctx context.Context, userID int) error {
	q, args, err := psql.Select("COUNT(*) > 0").From("teachers").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building teacher uniqueness query")
	}
	var exists bool
	if err = repo.exec.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	if exists {
		return teaching.ErrProfileExists
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teaching.Teacher) (teaching.Teacher, error) {
	q, args, err := psql.Insert("teachers").
		Columns("user_id", "subject", "qualification", "experience", "created_at", "updated_at").
		Values(
			tch.UserID, tch.Subject, tch.Qualification,
			null.NewString(tch.Experience, tch.Experience != ""),
			tch.CreatedAt.UTC(), tch.UpdatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return teaching.Teacher{}, errors.Wrap(err, "building teacher insert")
	}
	if err = repo.exec.GetContext(ctx, &tch.ID, q, args...); err != nil {
		return teaching.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter *teaching.QueryFilter, ordering []core.DBOrdering) ([]teaching.Teacher, error) {
	b := repo.selectTeachers()

	if filter != nil {
		if filter.Subject != "" {
			b = b.Where(sq.Eq{"t.subject": filter.Subject})
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"u.name": val}, sq.ILike{"u.email": val}, sq.ILike{"t.subject": val}})
		}
	}
	b = applyOrdering(b, ordering, "t.created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building teachers query")
	}
	var rows []teacherRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}

	teachers := make([]teaching.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toTeacher())
	}
	return teachers, nil
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id int) (teaching.Teacher, error) {
	q, args, err := repo.selectTeachers().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return teaching.Teacher{}, errors.Wrap(err, "building teacher query")
	}
	var row teacherRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return teaching.Teacher{}, repo.trapNoRowsErr(err, "finding teacher")
	}
	return row.toTeacher(), nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, tch teaching.Teacher) (teaching.Teacher, error) {
	q, args, err := psql.Update("teachers").
		Set("subject", tch.Subject).
		Set("qualification", tch.Qualification).
		Set("experience", null.NewString(tch.Experience, tch.Experience != "")).
		Set("updated_at", tch.UpdatedAt.UTC()).
		Where(sq.Eq{"id": tch.ID}).
		ToSql()
	if err != nil {
		return teaching.Teacher{}, errors.Wrap(err, "building teacher update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return teaching.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return teaching.Teacher{}, teaching.ErrNotFound
	}
	return tch, nil
}

func (repo teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("teachers").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building teachers delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting teachers")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
