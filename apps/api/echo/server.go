package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/attendance"
	"github.com/elimu-app/elimu/core/contact"
	"github.com/elimu-app/elimu/core/course"
	"github.com/elimu-app/elimu/core/grade"
	"github.com/elimu-app/elimu/core/notice"
	"github.com/elimu-app/elimu/core/student"
	"github.com/elimu-app/elimu/core/teaching"
	"github.com/elimu-app/elimu/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Policy     *access.Policy
		Validate   *validator.Validate
		Translator ut.Translator

		// SignalShutdown is called when a shutdown error is caught so main
		// can stop the server gracefully.
		SignalShutdown func()

		UserSvc       user.Service
		StudentSvc    student.Service
		TeachingSvc   teaching.Service
		CourseSvc     course.Service
		GradeSvc      grade.Service
		AttendanceSvc attendance.Service
		NoticeSvc     notice.Service
		ContactSvc    contact.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	// single enforcement point ahead of every route
	s.app.Use(accessMiddleware(conf, s.opts.Policy, s.opts.UserSvc, s.opts.Logger))

	registerPages(s.app, conf, s.opts.Policy, s.opts.NoticeSvc)
	registerUserAPI(s.app, conf, s.opts.UserSvc, s.opts.Validate)
	registerStudentAPI(s.app, s.opts.StudentSvc, s.opts.Validate)
	registerTeachingAPI(s.app, s.opts.TeachingSvc, s.opts.Validate)
	registerCourseAPI(s.app, s.opts.CourseSvc, s.opts.Validate)
	registerGradeAPI(s.app, s.opts.GradeSvc, s.opts.Validate)
	registerAttendanceAPI(s.app, s.opts.AttendanceSvc, s.opts.Validate)
	registerNoticeAPI(s.app, s.opts.NoticeSvc, s.opts.Validate)
	registerContactAPI(s.app, s.opts.ContactSvc, s.opts.UserSvc, s.opts.Validate)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
