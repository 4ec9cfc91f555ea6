package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

func Test_userApi_create(t *testing.T) {
	ta := newTestApp(t)

	sunrise, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	moonlight, _ := ta.createSchoolWithAdmin(t, "Moonlight", "admin@moonlight.cd")

	superUsr := testutil.CreateUser(t, ta.usrRepo, ta.conf.SuperAdminEmail, "Str0ngPwd!", user.RoleAdmin, sunrise.ID)
	superToken := ta.getToken(t, superUsr)

	newUserBody := func(email, schoolID string) []byte {
		return []byte(fmt.Sprintf(`{
			"email": %q, "password": "Str0ngPwd!", "role": "teacher", "school_id": %q
		}`, email, schoolID))
	}

	t.Run("admins create in their own school only", func(t *testing.T) {
		// a school id naming another tenant is ignored
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/users", admToken, newUserBody("john@sunrise.cd", moonlight.ID))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling user: %v", err)
		}
		if usr.SchoolID != sunrise.ID {
			t.Errorf("schoolID = %q; want %q", usr.SchoolID, sunrise.ID)
		}
	})

	t.Run("super names the school explicitly", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/users", superToken, newUserBody("paul@moonlight.cd", moonlight.ID))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling user: %v", err)
		}
		if usr.SchoolID != moonlight.ID {
			t.Errorf("schoolID = %q; want %q", usr.SchoolID, moonlight.ID)
		}
	})

	t.Run("super without a school is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/users", superToken, newUserBody("nope@nowhere.cd", ""))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/users", admToken, newUserBody("admin@sunrise.cd", sunrise.ID))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

// Deleting a student or teacher account removes its profile with it: the
// cascade runs through the aggregate, never through store side effects.
func Test_userApi_destroy(t *testing.T) {
	ta := newTestApp(t)

	_, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	_, otherAdm := ta.createSchoolWithAdmin(t, "Moonlight", "admin@moonlight.cd")
	otherAdmToken := ta.getToken(t, otherAdm)

	std, stdUsr := seedStudent(t, ta, adm.SchoolID, "jane@sunrise.cd", "Jane")
	tch, tchUsr := seedTeacher(t, ta, adm.SchoolID, "john@sunrise.cd", "John")
	plain := testutil.CreateUser(t, ta.usrRepo, "clerk@sunrise.cd", "Str0ngPwd!", user.RoleAdmin, adm.SchoolID)

	ctx := context.Background()

	t.Run("foreign admin gets not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%s", stdUsr.ID), otherAdmToken)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)
	})

	t.Run("student account takes its profile with it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%s", stdUsr.ID), admToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if _, err := ta.usrRepo.GetUserByID(ctx, stdUsr.ID); err != user.ErrNotFound {
			t.Errorf("user err = %v; want %v", err, user.ErrNotFound)
		}
		if _, err := ta.rosterRepo.GetStudentByID(ctx, std.ID); err != roster.ErrNotFound {
			t.Errorf("profile err = %v; want %v", err, roster.ErrNotFound)
		}
	})

	t.Run("teacher account takes its profile with it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%s", tchUsr.ID), admToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if _, err := ta.rosterRepo.GetTeacherByID(ctx, tch.ID); err != roster.ErrNotFound {
			t.Errorf("profile err = %v; want %v", err, roster.ErrNotFound)
		}
	})

	t.Run("plain account deletes plainly", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%s", plain.ID), admToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if _, err := ta.usrRepo.GetUserByID(ctx, plain.ID); err != user.ErrNotFound {
			t.Errorf("user err = %v; want %v", err, user.ErrNotFound)
		}
	})
}
