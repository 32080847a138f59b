package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/student"
)

type studentRow struct {
	ID        int         `db:"id"`
	Name      string      `db:"name"`
	RollNo    string      `db:"roll_no"`
	Grade     string      `db:"grade"`
	Section   string      `db:"section"`
	Gender    string      `db:"gender"`
	Phone     null.String `db:"phone"`
	Email     null.String `db:"email"`
	Address   null.String `db:"address"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row studentRow) toStudent() student.Student {
	return student.Student{
		ID:        row.ID,
		Name:      row.Name,
		RollNo:    row.RollNo,
		Grade:     row.Grade,
		Section:   row.Section,
		Gender:    row.Gender,
		Phone:     row.Phone.String,
		Email:     row.Email.String,
		Address:   row.Address.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CheckRollNoUniqueness(ctx context.Context, rollNo string, excludedStudents ...student.Student) error {
	b := psql.Select("COUNT(*) > 0").From("students").Where(sq.Eq{"roll_no": rollNo})
	if len(excludedStudents) > 0 {
		ids := make([]int, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			ids = append(ids, std.ID)
		}
		b = b.Where(sq.NotEq{"id": ids})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building student uniqueness query")
	}
	var exists bool
	if err = repo.exec.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	if exists {
		return student.ErrRollNoExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q, args, err := psql.Insert("students").
		Columns("name", "roll_no", "grade", "section", "gender", "phone", "email", "address", "created_at", "updated_at").
		Values(
			std.Name, std.RollNo, std.Grade, std.Section, std.Gender,
			null.NewString(std.Phone, std.Phone != ""),
			null.NewString(std.Email, std.Email != ""),
			null.NewString(std.Address, std.Address != ""),
			std.CreatedAt.UTC(), std.UpdatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student insert")
	}
	if err = repo.exec.GetContext(ctx, &std.ID, q, args...); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	b := psql.Select("*").From("students")

	if filter != nil {
		if filter.Grade != "" {
			b = b.Where(sq.Eq{"grade": filter.Grade})
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"name": val}, sq.ILike{"roll_no": val}, sq.ILike{"email": val}})
		}
	}
	b = applyOrdering(b, ordering, "created_at DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building students query")
	}
	var rows []studentRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	q, args, err := psql.Select("*").From("students").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student query")
	}
	var row studentRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student")
	}
	return row.toStudent(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q, args, err := psql.Update("students").
		Set("name", std.Name).
		Set("roll_no", std.RollNo).
		Set("grade", std.Grade).
		Set("section", std.Section).
		Set("gender", std.Gender).
		Set("phone", null.NewString(std.Phone, std.Phone != "")).
		Set("email", null.NewString(std.Email, std.Email != "")).
		Set("address", null.NewString(std.Address, std.Address != "")).
		Set("updated_at", std.UpdatedAt.UTC()).
		Where(sq.Eq{"id": std.ID}).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("students").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building students delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
