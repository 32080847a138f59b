package inmemdb

import (
	"context"
	"sort"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/teaching"
)

var teacherPK int

type teacherRepository struct {
	db    *teacherTable
	users *userTable
}

var _ teaching.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db.teacher, users: db.user}
}

// hydrate fills the display name and email from the linked user row.
func (repo *teacherRepository) hydrate(tch teaching.Teacher) teaching.Teacher {
	repo.users.RLock()
	defer repo.users.RUnlock()

	if usr, ok := repo.users.table[tch.UserID]; ok {
		tch.Name = usr.Name
		tch.Email = usr.Email
	}
	return tch
}

func (repo *teacherRepository) query() []teaching.Teacher {
	teachers := make([]teaching.Teacher, 0, len(repo.db.table))
	for _, tch := range repo.db.table {
		teachers = append(teachers, repo.hydrate(*tch))
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID > teachers[j].ID })
	return teachers
}

func (repo *teacherRepository) CheckUserUniqueness(ctx context.Context, userID int) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.UserID == userID {
			return teaching.ErrProfileExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teaching.Teacher) (teaching.Teacher, error) {
	repo.db.Lock()
	teacherPK++
	tch.ID = teacherPK
	repo.db.table[tch.ID] = &tch
	repo.db.Unlock()
	return repo.hydrate(tch), nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter *teaching.QueryFilter, ordering []core.DBOrdering) ([]teaching.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := repo.query()
	if filter == nil || filter.IsEmpty() {
		return teachers, nil
	}

	matches := make([]teaching.Teacher, 0, len(teachers))
	for _, tch := range teachers {
		if filter.Subject != "" && tch.Subject != filter.Subject {
			continue
		}
		if filter.Search != "" && !containsFold(filter.Search, tch.Name, tch.Email, tch.Subject) {
			continue
		}
		matches = append(matches, tch)
	}
	return matches, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id int) (teaching.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return repo.hydrate(*tch), nil
	}
	return teaching.Teacher{}, teaching.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teaching.Teacher) (teaching.Teacher, error) {
	repo.db.Lock()

	origTch, ok := repo.db.table[tch.ID]
	if !ok {
		repo.db.Unlock()
		return teaching.Teacher{}, teaching.ErrNotFound
	}
	tch.UserID = origTch.UserID
	tch.CreatedAt = origTch.CreatedAt
	repo.db.table[tch.ID] = &tch
	repo.db.Unlock()
	return repo.hydrate(tch), nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...int) (int, error) {
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
