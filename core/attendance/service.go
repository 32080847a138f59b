package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/student"
)

// ErrNotFound is returned when no attendance record matches.
var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		// UpsertRecord inserts the record, or overwrites status and time when
		// the student is already marked for that date.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecords(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Record, error)
		GetRecordByID(ctx context.Context, id int) (Record, error)
		DeleteRecordsByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		Mark(ctx context.Context, nr NewRecord) (Record, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Record, error)
		GetByID(ctx context.Context, id int) (Record, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		repo   Repository
		stdSvc student.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, stdSvc student.Service) Service {
	return &service{repo: repo, stdSvc: stdSvc}
}

// Mark records attendance for a day; the referenced student must exist.
func (svc *service) Mark(ctx context.Context, nr NewRecord) (Record, error) {
	if _, err := svc.stdSvc.GetByID(ctx, nr.StudentID); err != nil {
		return Record{}, err
	}

	now := time.Now().UTC()
	rec := Record{
		StudentID: nr.StudentID,
		Date:      nr.Date,
		Status:    nr.Status,
		Time:      nr.Time,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertRecord(ctx, rec)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteRecordsByID(ctx, ids...)
	return err
}
