package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

// seedStudent creates a student account plus its roster profile.
func seedStudent(t *testing.T, ta *testApp, schoolID, email, first string) (roster.Student, user.User) {
	t.Helper()
	usr := testutil.CreateUser(t, ta.usrRepo, email, "Str0ngPwd!", user.RoleStudent, schoolID)
	std := testutil.CreateStudent(t, ta.rosterRepo, schoolID, usr.ID, first, "Doe")
	return std, usr
}

func seedTeacher(t *testing.T, ta *testApp, schoolID, email, first string) (roster.Teacher, user.User) {
	t.Helper()
	usr := testutil.CreateUser(t, ta.usrRepo, email, "Str0ngPwd!", user.RoleTeacher, schoolID)
	tch := testutil.CreateTeacher(t, ta.rosterRepo, schoolID, usr.ID, first, "Smith")
	return tch, usr
}

func Test_rosterApi_students(t *testing.T) {
	ta := newTestApp(t)

	_, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	std, stdUsr := seedStudent(t, ta, adm.SchoolID, "jane@sunrise.cd", "Jane")
	stdToken := ta.getToken(t, stdUsr)

	_, tchUsr := seedTeacher(t, ta, adm.SchoolID, "john@sunrise.cd", "John")
	tchToken := ta.getToken(t, tchUsr)

	// a second tenant, unrelated to the first
	_, otherAdm := ta.createSchoolWithAdmin(t, "Moonlight", "admin@moonlight.cd")
	otherAdmToken := ta.getToken(t, otherAdm)

	stdPath := fmt.Sprintf("/api/v1/students/%s", std.ID)
	tests := []httpTest{
		{name: "query requires auth", method: http.MethodGet, path: "/api/v1/students",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "students cannot list the roster", method: http.MethodGet, path: "/api/v1/students", token: stdToken,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)},
		{name: "teachers cannot list the roster", method: http.MethodGet, path: "/api/v1/students", token: tchToken,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)},
		{name: "admin lists own school", method: http.MethodGet, path: "/api/v1/students", token: admToken,
			wantData: marshallList(t, std)},
		{name: "admin retrieves own student", method: http.MethodGet, path: stdPath, token: admToken,
			wantData: marshallObj(t, std)},
		{name: "foreign admin gets not found", method: http.MethodGet, path: stdPath, token: otherAdmToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "foreign admin cannot update", method: http.MethodPut, path: stdPath, token: otherAdmToken,
			body:     []byte(`{"firstname": "Hijacked"}`),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "foreign admin cannot delete", method: http.MethodDelete, path: stdPath, token: otherAdmToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "unknown id is not found", method: http.MethodGet, path: "/api/v1/students/nope", token: admToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin enrolls a student", func(t *testing.T) {
		body := []byte(`{
			"firstname": "Anna", "lastname": "Banza", "gender": "female",
			"email": "anna@sunrise.cd", "password": "Str0ngPwd!"
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/students", admToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		// the backing account exists and can log in
		usr, err := ta.usrRepo.GetUserByEmail(context.Background(), "anna@sunrise.cd")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed: %v", err)
		}
		if usr.Role != user.RoleStudent {
			t.Errorf("role = %q; want %q", usr.Role, user.RoleStudent)
		}
		if usr.SchoolID != adm.SchoolID {
			t.Errorf("schoolID = %q; want %q", usr.SchoolID, adm.SchoolID)
		}

		t.Run("duplicate email", func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/v1/students", admToken, body)
			ta.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
			}
		})
	})

	t.Run("delete cascades to the account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, stdPath, admToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if _, err := ta.usrRepo.GetUserByID(context.Background(), stdUsr.ID); err != user.ErrNotFound {
			t.Errorf("backing user err = %v; want %v", err, user.ErrNotFound)
		}
	})
}

func Test_rosterApi_ownStudents(t *testing.T) {
	ta := newTestApp(t)

	_, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	tch, tchUsr := seedTeacher(t, ta, adm.SchoolID, "john@sunrise.cd", "John")
	tchToken := ta.getToken(t, tchUsr)

	jane, _ := seedStudent(t, ta, adm.SchoolID, "jane@sunrise.cd", "Jane")
	seedStudent(t, ta, adm.SchoolID, "anna@sunrise.cd", "Anna") // never attended

	testutil.CreateAttendance(t, ta.academicsRepo, adm.SchoolID, jane.ID, "sub1", tch.ID)

	tests := []httpTest{
		{name: "teacher sees attended students only", method: http.MethodGet, path: "/api/v1/students/mine", token: tchToken,
			wantData: marshallList(t, jane)},
		{name: "admins have no roster of their own", method: http.MethodGet, path: "/api/v1/students/mine", token: admToken,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_rosterApi_teachers(t *testing.T) {
	ta := newTestApp(t)

	_, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	tch, tchUsr := seedTeacher(t, ta, adm.SchoolID, "john@sunrise.cd", "John")
	tchToken := ta.getToken(t, tchUsr)

	_, otherAdm := ta.createSchoolWithAdmin(t, "Moonlight", "admin@moonlight.cd")
	otherAdmToken := ta.getToken(t, otherAdm)

	tchPath := fmt.Sprintf("/api/v1/teachers/%s", tch.ID)
	tests := []httpTest{
		{name: "teachers cannot manage teachers", method: http.MethodGet, path: "/api/v1/teachers", token: tchToken,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)},
		{name: "admin lists own school", method: http.MethodGet, path: "/api/v1/teachers", token: admToken,
			wantData: marshallList(t, tch)},
		{name: "foreign admin gets not found", method: http.MethodGet, path: tchPath, token: otherAdmToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin updates a teacher", func(t *testing.T) {
		body := []byte(`{"phone": "+243811111111"}`)
		req, rec := newAuthRequest(http.MethodPut, tchPath, admToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		got, err := ta.rosterRepo.GetTeacherByID(context.Background(), tch.ID)
		if err != nil {
			t.Fatalf("GetTeacherByID() failed: %v", err)
		}
		if got.Phone.String != "+243811111111" {
			t.Errorf("phone = %q; want %q", got.Phone.String, "+243811111111")
		}
		if got.FirstName != tch.FirstName {
			t.Errorf("first name changed: %q", got.FirstName)
		}
	})
}
