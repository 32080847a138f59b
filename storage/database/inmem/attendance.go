package inmemdb

import (
	"context"
	"sort"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/attendance"
)

var attendancePK int

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query() []attendance.Record {
	records := make([]attendance.Record, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	return records
}

func (repo *attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, orig := range repo.db.table {
		if orig.StudentID == rec.StudentID && orig.Date == rec.Date {
			orig.Status = rec.Status
			orig.Time = rec.Time
			orig.UpdatedAt = rec.UpdatedAt
			return *orig, nil
		}
	}

	attendancePK++
	rec.ID = attendancePK
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter, ordering []core.DBOrdering) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := repo.query()
	if filter == nil || filter.IsEmpty() {
		return records, nil
	}

	matches := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}
		if filter.StudentID != 0 && rec.StudentID != filter.StudentID {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id int) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...int) (int, error) {
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
