package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/attendance"
)

type attendanceRow struct {
	ID        int         `db:"id"`
	StudentID int         `db:"student_id"`
	Date      string      `db:"date"`
	Status    string      `db:"status"`
	Time      null.String `db:"time"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row attendanceRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:        row.ID,
		StudentID: row.StudentID,
		Date:      row.Date,
		Status:    row.Status,
		Time:      row.Time.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type attendanceRepository struct {
	exec core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{exec: exec}
}

func (repo attendanceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return attendance.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q, args, err := psql.Insert("attendance").
		Columns("student_id", "date", "status", "time", "created_at", "updated_at").
		Values(
			rec.StudentID, rec.Date, rec.Status,
			null.NewString(rec.Time, rec.Time != ""),
			rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
		).
		Suffix(`ON CONFLICT (student_id, date) DO UPDATE
			SET status = EXCLUDED.status, time = EXCLUDED.time, updated_at = EXCLUDED.updated_at
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "building attendance upsert")
	}

	var ret struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err = repo.exec.GetContext(ctx, &ret, q, args...); err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance")
	}
	rec.ID = ret.ID
	rec.CreatedAt = ret.CreatedAt
	return rec, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter, ordering []core.DBOrdering) ([]attendance.Record, error) {
	b := psql.Select("*").From("attendance")

	if filter != nil {
		if filter.Date != "" {
			b = b.Where(sq.Eq{"date": filter.Date})
		}
		if filter.StudentID != 0 {
			b = b.Where(sq.Eq{"student_id": filter.StudentID})
		}
	}
	b = applyOrdering(b, ordering, "date DESC")

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building attendance query")
	}
	var rows []attendanceRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}

	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (repo attendanceRepository) GetRecordByID(ctx context.Context, id int) (attendance.Record, error) {
	q, args, err := psql.Select("*").From("attendance").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "building attendance query")
	}
	var row attendanceRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return attendance.Record{}, repo.trapNoRowsErr(err, "finding attendance record")
	}
	return row.toRecord(), nil
}

func (repo attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...int) (int, error) {
	q, args, err := psql.Delete("attendance").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building attendance delete")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting attendance records")
	}
	cnt, _ := res.RowsAffected()
	return int(cnt), nil
}
