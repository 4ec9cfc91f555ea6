package main

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
	emailsvc "github.com/darasadev/darasa/services/email"
	dummydb "github.com/darasadev/darasa/storage/database/dummy"
	testutil "github.com/darasadev/darasa/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	conf := testutil.NewConfig()
	usrRepo = dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	return &commandLine{
		conf:     conf,
		validate: validate,
		usrSvc:   usrSvc,
		schSvc:   school.NewService(conf, dummydb.NewSchoolRepository(db), usrSvc, emailsvc.NewConsoleServiceMock(conf)),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string   // prompted password, if any
	wantErr error
}

func Test_commandLine_createSchool(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"createschool"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"createschool", "-name", "Sunrise"}, wantErr: errHelp},
		{name: "no password", args: []string{"createschool", "-name", "Sunrise", "-email", "admin@sunrise.cd"}, wantErr: errHelp},
		{name: "ok", args: []string{"createschool", "-name", "Sunrise", "-email", "admin@sunrise.cd"}, pwd: "Str0ngPwd!"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// the admin account was provisioned alongside the school
	adm, err := usrRepo.GetUserByEmail(context.Background(), "admin@sunrise.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if adm.Role != user.RoleAdmin {
		t.Errorf("role = %q; want %q", adm.Role, user.RoleAdmin)
	}
	if err = adm.CheckPassword("Str0ngPwd!"); err != nil {
		t.Error("admin password not set")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "awe@test.cd", "old-pwd", user.RoleAdmin, "s1")

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "new-pwd", wantErr: user.ErrNotFound},
		{name: "ok", args: []string{"resetpassword", "-email", "Awe@Test.cd"}, pwd: "new-pwd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if err = refreshed.CheckPassword("new-pwd"); err != nil {
		t.Error("failed to update new password")
	}
}
