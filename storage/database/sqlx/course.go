package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/course"
)

type courseRow struct {
	ID        int         `db:"id"`
	Code      string      `db:"code"`
	Name      string      `db:"name"`
	Grade     string      `db:"grade"`
	TeacherID null.Int    `db:"teacher_id"`
	Schedule  null.String `db:"schedule"`
	Room      null.String `db:"room"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row courseRow) toCourse() course.Course {
	return course.Course{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Grade:     row.Grade,
		TeacherID: row.TeacherID.Int,
		Schedule:  row.Schedule.String,
		Room:      row.Room.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type courseRepository struct {
	exec core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{exec: exec}
}

func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CheckCodeUniqueness(ctx context.Context, code string, excludedCourses ...course.Course) error {
	b := psql.Select("COUNT(*) > 0").From("courses").Where(sq.Eq{"code": code})
	if len(excludedCourses) > 0 {
		ids := make([]int, 0, len(excludedCourses))
		for _, crs := range excludedCourses {
			ids = append(ids, crs.ID)
		}
		b = b.Where(sq.NotEq{"id": ids})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building course uniqueness query")
	}
	var exists bool
	if err = repo.exec.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking course uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	q, args, err := psql.Insert("courses").
		Columns("code", "name", "grade", "teacher_id", "schedule", "room", "created_at", "updated_at").
		Values(
			crs.Code, crs.Name, crs.Grade,
			null.NewInt(crs.TeacherID, crs.TeacherID != 0),
			null.NewString(crs.Schedule, crs.Schedule != ""),
			null.NewString(crs.Room, crs.Room != ""),
			crs.CreatedAt.UTC(), crs.UpdatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building course insert")
	}
	if err = repo.exec.GetContext(ctx, &crs.ID, q, args...); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	b := psql.Select("*").From("courses")

	if filter != nil {
		if filter.Grade != "" {
			b = b.Where(sq.Eq{"grade": filter.Grade})
		}
		if filter.TeacherID != 0 {
			b = b.Where(sq.Eq{"teacher_id": filter.TeacherID})
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"code": val}, sq.ILike{"name": val}})
		}
	}
	b = applyOrdering(b, ordering, "created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building courses query")
	}
	var rows []courseRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	q, args, err := psql.Select("*").From("courses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building course query")
	}
	var row courseRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course")
	}
	return row.toCourse(), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	q, args, err := psql.Update("courses").
		Set("code", crs.Code).
		Set("name", crs.Name).
		Set("grade", crs.Grade).
		Set("teacher_id", null.NewInt(crs.TeacherID, crs.TeacherID != 0)).
		Set("schedule", null.NewString(crs.Schedule, crs.Schedule != "")).
		Set("room", null.NewString(crs.Room, crs.Room != "")).
		Set("updated_at", crs.UpdatedAt.UTC()).
		Where(sq.Eq{"id": crs.ID}).
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building course update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("courses").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building courses delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting courses")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
