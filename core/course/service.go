package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/teaching"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string, excludedCourses ...Course) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryCourses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...int) (int, error)
	}

	Service interface {
		CheckCodeUniqueness(code string, exclCourses ...Course) error
		Create(ctx context.Context, nc NewCourse) (Course, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		GetByID(ctx context.Context, id int) (Course, error)
		Update(ctx context.Context, id int, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, ids ...int) error
	}

	service struct {
		repo   Repository
		tchSvc teaching.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, tchSvc teaching.Service) Service {
	return &service{repo: repo, tchSvc: tchSvc}
}

func (svc *service) CheckCodeUniqueness(code string, exclCourses ...Course) error {
	if err := svc.repo.CheckCodeUniqueness(context.Background(), code, exclCourses...); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) checkTeacher(ctx context.Context, teacherID int) error {
	if teacherID == 0 {
		return nil // unassigned course
	}
	if _, err := svc.tchSvc.GetByID(ctx, teacherID); err != nil {
		if errors.Cause(err) == teaching.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := svc.checkTeacher(ctx, nc.TeacherID); err != nil {
		return Course{}, err
	}

	now := time.Now().UTC()
	crs := Course{
		Code:      nc.Code,
		Name:      nc.Name,
		Grade:     nc.Grade,
		TeacherID: nc.TeacherID,
		Schedule:  nc.Schedule,
		Room:      nc.Room,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id int, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if err = svc.checkTeacher(ctx, uc.TeacherID); err != nil {
		return Course{}, err
	}
	crs.Code = uc.Code
	crs.Name = uc.Name
	crs.Grade = uc.Grade
	crs.TeacherID = uc.TeacherID
	crs.Schedule = uc.Schedule
	crs.Room = uc.Room
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, ids ...int) error {
	_, err := svc.repo.DeleteCoursesByID(ctx, ids...)
	return err
}
