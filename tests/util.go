package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
)

// NewConfig returns a fixed configuration for tests: no environment reads,
// known secrets, short token lifetimes.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Darasa",
		WorkDir:          core.Getwd(),
		SecretKey:        []byte("test-access-secret"),
		RefreshSecretKey: []byte("test-refresh-secret"),
		SuperAdminEmail:  "super@darasa.app",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@localhost"},
		FrontendBaseURL:  "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        15 * time.Minute,
			JWTRefreshExpirationDelta: time.Hour,
			ShutdownTimeout:           time.Second,
		},
	}
}

func CreateSchool(t *testing.T, repo school.Repository, name, email string) school.School {
	t.Helper()
	now := time.Now().UTC()
	sch, err := repo.CreateSchool(context.Background(), school.School{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSchool() failed: %v", err)
	}
	return sch
}

func CreateUser(t *testing.T, repo user.Repository, email, pwd, role, schoolID string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Email:     email,
		Role:      role,
		SchoolID:  schoolID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo roster.Repository, schoolID, userID, first, last string) roster.Student {
	t.Helper()
	now := time.Now().UTC()
	std, err := repo.CreateStudent(context.Background(), roster.Student{
		SchoolID:  schoolID,
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		Gender:    "female",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateTeacher(t *testing.T, repo roster.Repository, schoolID, userID, first, last string) roster.Teacher {
	t.Helper()
	now := time.Now().UTC()
	tch, err := repo.CreateTeacher(context.Background(), roster.Teacher{
		SchoolID:  schoolID,
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		Gender:    "male",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateClass(t *testing.T, repo academics.Repository, schoolID, name string) academics.Class {
	t.Helper()
	now := time.Now().UTC()
	cls, err := repo.CreateClass(context.Background(), academics.Class{
		SchoolID:  schoolID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateAttendance(t *testing.T, repo academics.Repository, schoolID, studentID, subjectID, teacherID string) academics.Attendance {
	t.Helper()
	now := time.Now().UTC()
	att, err := repo.CreateAttendance(context.Background(), academics.Attendance{
		SchoolID:       schoolID,
		StudentID:      studentID,
		SubjectID:      subjectID,
		TeacherID:      teacherID,
		Date:           now,
		AttendanceType: academics.AttendancePresent,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	return att
}
