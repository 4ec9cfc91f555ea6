package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasadev/darasa/apps/api/echo"
	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/activity"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/finance"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
	emailsvc "github.com/darasadev/darasa/services/email"
	logsvc "github.com/darasadev/darasa/services/logger"
	"github.com/darasadev/darasa/storage/database"
	sqlxrepos "github.com/darasadev/darasa/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	authSvc := auth.NewService(conf, sqlxrepos.NewRefreshTokenRepository(db), usrRepo)
	schSvc := school.NewService(conf, sqlxrepos.NewSchoolRepository(db), usrSvc, mailSvc)
	rosterSvc := roster.NewService(sqlxrepos.NewRosterRepository(db), usrSvc)
	academicsSvc := academics.NewService(sqlxrepos.NewAcademicsRepository(db))
	financeSvc := finance.NewService(sqlxrepos.NewFinanceRepository(db))
	activitySvc := activity.NewService(sqlxrepos.NewActivityRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s API initializing : env %s", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:      conf.Server.Address(),
			Conf:         conf,
			Logger:       logger,
			Validate:     validate,
			Translator:   translator,
			AuthSvc:      authSvc,
			UserSvc:      usrSvc,
			SchoolSvc:    schSvc,
			RosterSvc:    rosterSvc,
			AcademicsSvc: academicsSvc,
			FinanceSvc:   financeSvc,
			ActivitySvc:  activitySvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
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

	if err = database.Migrate(db); err != nil {
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
