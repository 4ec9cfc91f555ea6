package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
	emailsvc "github.com/darasadev/darasa/services/email"
	"github.com/darasadev/darasa/storage/database"
	sqlxrepos "github.com/darasadev/darasa/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))

	// start CLI
	cli := commandLine{
		db:       db,
		conf:     conf,
		validate: validate,
		usrSvc:   usrSvc,
		schSvc:   school.NewService(conf, sqlxrepos.NewSchoolRepository(db), usrSvc, emailsvc.NewConsoleService(conf)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
