package grade

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/course"
	"github.com/elimu-app/elimu/core/student"
)

// ErrNotFound is returned when no grade entry matches.
var ErrNotFound = errors.New("grade entry not found")

type (
	Repository interface {
		CreateEntry(ctx context.Context, ent Entry) (Entry, error)
		QueryEntries(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Entry, error)
		GetEntryByID(ctx context.Context, id int) (Entry, error)
		UpdateEntry(ctx context.Context, ent Entry) (Entry, error)
		DeleteEntriesByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		Create(ctx context.Context, ne NewEntry) (Entry, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Entry, error)
		GetByID(ctx context.Context, id int) (Entry, error)
		Update(ctx context.Context, id int, ue UpdateEntry) (Entry, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		repo   Repository
		stdSvc student.Service
		crsSvc course.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, stdSvc student.Service, crsSvc course.Service) Service {
	return &service{repo: repo, stdSvc: stdSvc, crsSvc: crsSvc}
}

// Create records a grade; the referenced student and course must both exist.
func (svc *service) Create(ctx context.Context, ne NewEntry) (Entry, error) {
	if _, err := svc.stdSvc.GetByID(ctx, ne.StudentID); err != nil {
		return Entry{}, err
	}
	if _, err := svc.crsSvc.GetByID(ctx, ne.CourseID); err != nil {
		return Entry{}, err
	}

	now := time.Now().UTC()
	ent := Entry{
		StudentID:  ne.StudentID,
		CourseID:   ne.CourseID,
		Grade:      ne.Grade,
		Percentage: ne.Percentage,
		Term:       ne.Term,
		Remarks:    ne.Remarks,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateEntry(ctx, ent)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Entry, error) {
	return svc.repo.GetEntryByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id int, ue UpdateEntry) (Entry, error) {
	ent, err := svc.repo.GetEntryByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	ent.Grade = ue.Grade
	ent.Percentage = ue.Percentage
	ent.Term = ue.Term
	ent.Remarks = ue.Remarks
	ent.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEntry(ctx, ent)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteEntriesByID(ctx, ids...)
	return err
}
