package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
	"github.com/darasadev/darasa/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sqlx.DB
	conf     *core.Config
	validate *validator.Validate
	usrSvc   *user.Service
	schSvc   *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  createschool -name NAME -email EMAIL - register a school and its admin account")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createSchoolCmd := flag.NewFlagSet("createschool", flag.ExitOnError)
	createSchoolName := createSchoolCmd.String("name", "", "The school's name.")
	createSchoolEmail := createSchoolCmd.String("email", "", "The admin account's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return database.Migrate(cli.db)
	case "createschool":
		if err := createSchoolCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createSchoolName == "" || *createSchoolEmail == "" {
			createSchoolCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				createSchoolCmd.Usage()
			}
			return err
		}
		return cli.createSchool(*createSchoolName, *createSchoolEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) createSchool(name, email, pwd string) error {
	data := school.NewSchool{Name: name, Email: email, Password: pwd}
	data.Clean()
	if err := cli.validate.Struct(&data); err != nil {
		return err
	}

	sch, adm, err := cli.schSvc.Register(context.Background(), data)
	if err != nil {
		return err
	}
	fmt.Printf("school %q created with admin account %s\n", sch.Name, adm.Email)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	usr, err := cli.usrSvc.GetByEmail(context.Background(), core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if _, err = cli.usrSvc.SetPassword(context.Background(), usr.ID, pwd); err != nil {
		return err
	}
	fmt.Printf("password reset for %s\n", usr.Email)
	return nil
}
