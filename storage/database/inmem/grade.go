package inmemdb

import (
	"context"
	"sort"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/grade"
)

var gradePK int

type gradeRepository struct {
	db *gradeTable
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) query() []grade.Entry {
	entries := make([]grade.Entry, 0, len(repo.db.table))
	for _, ent := range repo.db.table {
		entries = append(entries, *ent)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries
}

func (repo *gradeRepository) CreateEntry(ctx context.Context, ent grade.Entry) (grade.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	gradePK++
	ent.ID = gradePK
	repo.db.table[ent.ID] = &ent
	return ent, nil
}

func (repo *gradeRepository) QueryEntries(ctx context.Context, filter *grade.QueryFilter, ordering []core.DBOrdering) ([]grade.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := repo.query()
	if filter == nil || filter.IsEmpty() {
		return entries, nil
	}

	matches := make([]grade.Entry, 0, len(entries))
	for _, ent := range entries {
		if filter.StudentID != 0 && ent.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != 0 && ent.CourseID != filter.CourseID {
			continue
		}
		if filter.Term != "" && ent.Term != filter.Term {
			continue
		}
		matches = append(matches, ent)
	}
	return matches, nil
}

func (repo *gradeRepository) GetEntryByID(ctx context.Context, id int) (grade.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ent, ok := repo.db.table[id]; ok {
		return *ent, nil
	}
	return grade.Entry{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpdateEntry(ctx context.Context, ent grade.Entry) (grade.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origEnt, ok := repo.db.table[ent.ID]
	if !ok {
		return grade.Entry{}, grade.ErrNotFound
	}
	ent.StudentID = origEnt.StudentID
	ent.CourseID = origEnt.CourseID
	ent.CreatedAt = origEnt.CreatedAt
	repo.db.table[ent.ID] = &ent
	return ent, nil
}

func (repo *gradeRepository) DeleteEntriesByID(ctx context.Context, ids ...int) (int, error) {
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
