package teaching

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("teacher not found")
	ErrProfileExists = errors.New("this user already has a teacher profile")
)

type (
	Repository interface {
		CheckUserUniqueness(ctx context.Context, userID int) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id int) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		GetByID(ctx context.Context, id int) (Teacher, error)
		Update(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc}
}

func (svc *service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	// the linked account must exist
	if _, err := svc.usrSvc.GetByID(ctx, nt.UserID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Teacher{}, core.NewValidationError(err, core.FieldError{Field: "user_id", Error: err.Error()})
		}
		return Teacher{}, err
	}
	if err := svc.repo.CheckUserUniqueness(ctx, nt.UserID); err != nil {
		if errors.Cause(err) == ErrProfileExists {
			return Teacher{}, core.NewValidationError(err, core.FieldError{Field: "user_id", Error: err.Error()})
		}
		return Teacher{}, err
	}

	now := time.Now().UTC()
	tch := Teacher{
		UserID:        nt.UserID,
		Subject:       nt.Subject,
		Qualification: nt.Qualification,
		Experience:    nt.Experience,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateTeacher(ctx, tch)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	tch.Subject = ut.Subject
	tch.Qualification = ut.Qualification
	tch.Experience = ut.Experience
	tch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteTeachersByID(ctx, ids...)
	return err
}
