package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

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
	logsvc "github.com/elimu-app/elimu/services/logger"
	"github.com/elimu-app/elimu/storage/database"
	sqlxrepos "github.com/elimu-app/elimu/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(core.Getwd())
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(db), mailSvc)
	stdSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	tchSvc := teaching.NewService(sqlxrepos.NewTeacherRepository(db), usrSvc)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db), tchSvc)
	grdSvc := grade.NewService(sqlxrepos.NewGradeRepository(db), stdSvc, crsSvc)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), stdSvc)
	ntcSvc := notice.NewService(sqlxrepos.NewNoticeRepository(db))
	cntSvc := contact.NewService(conf, sqlxrepos.NewContactRepository(db), mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(conf.WorkDir, validate, translator)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Addr(),
		Conf:           conf,
		Logger:         logger,
		Policy:         access.DefaultPolicy(),
		Validate:       validate,
		Translator:     translator,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		TeachingSvc:    tchSvc,
		CourseSvc:      crsSvc,
		GradeSvc:       grdSvc,
		AttendanceSvc:  attSvc,
		NoticeSvc:      ntcSvc,
		ContactSvc:     cntSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
