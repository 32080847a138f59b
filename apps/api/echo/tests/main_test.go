package tests

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/elimu-app/elimu/apps/api/echo"
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
	emailsvc "github.com/elimu-app/elimu/services/email"
	inmemdb "github.com/elimu-app/elimu/storage/database/inmem"
	testutil "github.com/elimu-app/elimu/tests"
)

var (
	conf *core.Config
	app  echoapi.Server

	usrRepo user.Repository
	stdRepo student.Repository
	cntRepo contact.Repository

	usrSvc user.Service

	validate   *validator.Validate
	translator ut.Translator
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "Elimu",
		SecretKey:                 "s3cr3t-t3st-k3y",
		FrontendBaseURL:           "http://localhost:3000",
		WorkDir:                   core.Getwd(),
		DefaultFromEmail:          "noreply@test.cd",
		ContactEmail:              "info@test.cd",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        1 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			RoleLookupTimeout:         1 * time.Second,
		},
	}

	validate = validator.New()
	_en := en.New()
	translator, _ = ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(conf.WorkDir, validate, translator)

	resetApp()

	os.Exit(m.Run())
}

// resetApp rebuilds the repos, services and server on a fresh in-memory DB.
func resetApp() {
	db, err := inmemdb.Open()
	if err != nil {
		log.Fatalf("resetApp() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	stdRepo = inmemdb.NewStudentRepository(db)
	tchRepo := inmemdb.NewTeacherRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	grdRepo := inmemdb.NewGradeRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)
	ntcRepo := inmemdb.NewNoticeRepository(db)
	cntRepo = inmemdb.NewContactRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.SentMessages = nil

	usrSvc = user.NewServiceMock(conf, usrRepo, mailSvc)
	stdSvc := student.NewService(stdRepo)
	tchSvc := teaching.NewService(tchRepo, usrSvc)
	crsSvc := course.NewService(crsRepo, tchSvc)
	grdSvc := grade.NewService(grdRepo, stdSvc, crsSvc)
	attSvc := attendance.NewService(attRepo, stdSvc)
	ntcSvc := notice.NewService(ntcRepo)
	cntSvc := contact.NewService(conf, cntRepo, mailSvc)

	app = echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         testutil.NewLogger(),
		Policy:         access.DefaultPolicy(),
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		TeachingSvc:    tchSvc,
		CourseSvc:      crsSvc,
		GradeSvc:       grdSvc,
		AttendanceSvc:  attSvc,
		NoticeSvc:      ntcSvc,
		ContactSvc:     cntSvc,
	})
}
