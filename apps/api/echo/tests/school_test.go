package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

func Test_schoolApi(t *testing.T) {
	ta := newTestApp(t)

	sunrise, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	moonlight, _ := ta.createSchoolWithAdmin(t, "Moonlight", "admin@moonlight.cd")

	// the super admin is recognized by the configured email alone
	superUsr := testutil.CreateUser(t, ta.usrRepo, ta.conf.SuperAdminEmail, "Str0ngPwd!", user.RoleAdmin, sunrise.ID)
	superToken := ta.getToken(t, superUsr)

	tests := []httpTest{
		{name: "requires auth", method: http.MethodGet, path: "/api/v1/schools",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "school admins are not super", method: http.MethodGet, path: "/api/v1/schools", token: admToken,
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)},
		{name: "super lists every school", method: http.MethodGet, path: "/api/v1/schools", token: superToken,
			wantData: marshallList(t, moonlight, sunrise)},
		{name: "super reaches across tenants", method: http.MethodGet,
			path: fmt.Sprintf("/api/v1/schools/%s", moonlight.ID), token: superToken,
			wantData: marshallObj(t, moonlight)},
		{name: "unknown school is not found", method: http.MethodGet, path: "/api/v1/schools/nope", token: superToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("super registers a school", func(t *testing.T) {
		body := []byte(`{"name": "Starlight", "email": "admin@starlight.cd", "password": "Str0ngPwd!"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/schools", superToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		// registration provisions the admin account too
		usr, err := ta.usrRepo.GetUserByEmail(context.Background(), "admin@starlight.cd")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed: %v", err)
		}
		if usr.Role != user.RoleAdmin {
			t.Errorf("role = %q; want %q", usr.Role, user.RoleAdmin)
		}
	})

	t.Run("super deletes a school", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/schools/%s", moonlight.ID)
		req, rec := newAuthRequest(http.MethodDelete, path, superToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, path, superToken)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)
	})
}

func Test_schoolApi_notices(t *testing.T) {
	ta := newTestApp(t)

	sunrise, adm := ta.createSchoolWithAdmin(t, "Sunrise", "admin@sunrise.cd")
	admToken := ta.getToken(t, adm)

	superUsr := testutil.CreateUser(t, ta.usrRepo, ta.conf.SuperAdminEmail, "Str0ngPwd!", user.RoleAdmin, sunrise.ID)
	superToken := ta.getToken(t, superUsr)

	t.Run("school admins cannot post notices", func(t *testing.T) {
		body := []byte(`{"title": "Closure", "content": "Closed tomorrow."}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/notices", admToken, body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)}, rec)
	})

	t.Run("super posts a notice", func(t *testing.T) {
		body := []byte(`{"title": "Closure", "content": "Closed tomorrow."}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/notices", superToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("title is required", func(t *testing.T) {
		body := []byte(`{"content": "no title"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/notices", superToken, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}
