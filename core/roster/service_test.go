package roster_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
	dummydb "github.com/darasadev/darasa/storage/database/dummy"
	testutil "github.com/darasadev/darasa/tests"
)

func setup(t *testing.T) (*roster.Service, roster.Repository, user.Repository, *dummydb.DB) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewRosterRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	svc := roster.NewService(repo, user.NewService(usrRepo))
	return svc, repo, usrRepo, db
}

func TestService_CreateStudent(t *testing.T) {
	svc, _, usrRepo, _ := setup(t)
	ctx := context.Background()

	std, err := svc.CreateStudent(ctx, "s1", roster.NewProfile{
		FirstName: "Jane",
		LastName:  "Doe",
		Gender:    "female",
		Email:     "jane@sunrise.cd",
		Password:  "Str0ngPwd!",
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	assert.Equal(t, "s1", std.SchoolID)
	assert.Equal(t, "jane@sunrise.cd", std.Email)

	// the backing account carries the student role
	usr, err := usrRepo.GetUserByID(ctx, std.UserID)
	assert.NoError(t, err)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, "s1", usr.SchoolID)
	assert.NoError(t, usr.CheckPassword("Str0ngPwd!"))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateStudent(ctx, "s1", roster.NewProfile{
			FirstName: "Jane",
			LastName:  "Imposter",
			Gender:    "female",
			Email:     "jane@sunrise.cd",
			Password:  "Str0ngPwd!",
		})
		assert.Error(t, err)
	})
}

func TestService_CreateTeacher(t *testing.T) {
	svc, _, usrRepo, _ := setup(t)
	ctx := context.Background()

	tch, err := svc.CreateTeacher(ctx, "s1", roster.NewProfile{
		FirstName: "John",
		LastName:  "Smith",
		Gender:    "male",
		Email:     "john@sunrise.cd",
		Password:  "Str0ngPwd!",
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}

	usr, err := usrRepo.GetUserByID(ctx, tch.UserID)
	assert.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, usr.Role)
}

// Deleting a profile removes its backing user account with it, so the
// orphaned account can no longer log in.
func TestService_DeleteStudent_cascade(t *testing.T) {
	svc, repo, usrRepo, _ := setup(t)
	ctx := context.Background()

	std, err := svc.CreateStudent(ctx, "s1", roster.NewProfile{
		FirstName: "Jane",
		LastName:  "Doe",
		Gender:    "female",
		Email:     "jane@sunrise.cd",
		Password:  "Str0ngPwd!",
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	if err = svc.DeleteStudent(ctx, std.ID); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}

	_, err = repo.GetStudentByID(ctx, std.ID)
	assert.Equal(t, roster.ErrNotFound, err)
	_, err = usrRepo.GetUserByID(ctx, std.UserID)
	assert.Equal(t, user.ErrNotFound, err)

	t.Run("idempotent target", func(t *testing.T) {
		assert.Equal(t, roster.ErrNotFound, svc.DeleteStudent(ctx, std.ID))
	})
}

func TestService_DeleteTeacher_cascade(t *testing.T) {
	svc, repo, usrRepo, _ := setup(t)
	ctx := context.Background()

	tch, err := svc.CreateTeacher(ctx, "s1", roster.NewProfile{
		FirstName: "John",
		LastName:  "Smith",
		Gender:    "male",
		Email:     "john@sunrise.cd",
		Password:  "Str0ngPwd!",
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}

	if err = svc.DeleteTeacher(ctx, tch.ID); err != nil {
		t.Fatalf("DeleteTeacher() failed: %v", err)
	}

	_, err = repo.GetTeacherByID(ctx, tch.ID)
	assert.Equal(t, roster.ErrNotFound, err)
	_, err = usrRepo.GetUserByID(ctx, tch.UserID)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_QueryStudentsOfTeacher(t *testing.T) {
	svc, _, _, db := setup(t)
	ctx := context.Background()

	tch, err := svc.CreateTeacher(ctx, "s1", roster.NewProfile{
		FirstName: "John", LastName: "Smith", Gender: "male",
		Email: "john@sunrise.cd", Password: "Str0ngPwd!",
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	mkStudent := func(first, email string) roster.Student {
		std, err := svc.CreateStudent(ctx, "s1", roster.NewProfile{
			FirstName: first, LastName: "Doe", Gender: "female",
			Email: email, Password: "Str0ngPwd!",
		})
		if err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
		return std
	}
	jane := mkStudent("Jane", "jane@sunrise.cd")
	anna := mkStudent("Anna", "anna@sunrise.cd")
	mkStudent("Nope", "nope@sunrise.cd") // never attended

	academicsRepo := dummydb.NewAcademicsRepository(db)
	testutil.CreateAttendance(t, academicsRepo, "s1", jane.ID, "sub1", tch.ID)
	testutil.CreateAttendance(t, academicsRepo, "s1", jane.ID, "sub2", tch.ID) // duplicate student
	testutil.CreateAttendance(t, academicsRepo, "s1", anna.ID, "sub1", tch.ID)

	students, err := svc.QueryStudentsOfTeacher(ctx, tch.ID, "s1")
	if err != nil {
		t.Fatalf("QueryStudentsOfTeacher() failed: %v", err)
	}
	if assert.Len(t, students, 2) {
		// distinct, ordered by first name
		assert.Equal(t, anna.ID, students[0].ID)
		assert.Equal(t, jane.ID, students[1].ID)
	}
}
