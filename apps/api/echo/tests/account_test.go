package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/darasadev/darasa/apps/api/echo"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

func Test_authApi_register(t *testing.T) {
	ta := newTestApp(t)

	body := marshallObj(t, map[string]string{
		"name":     "Sunrise Academy",
		"email":    "admin@sunrise.cd",
		"password": "Str0ngPwd!",
	})
	req, rec := newRequest(http.MethodPost, "/api/v1/register", body)
	ta.app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var res echoapi.RegisterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.School.Name != "Sunrise Academy" {
		t.Errorf("school name = %q; want %q", res.School.Name, "Sunrise Academy")
	}
	if res.User.Role != user.RoleAdmin {
		t.Errorf("user role = %q; want %q", res.User.Role, user.RoleAdmin)
	}
	if res.User.SchoolID != res.School.ID {
		t.Errorf("user school = %q; want %q", res.User.SchoolID, res.School.ID)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Error("register did not issue a token pair")
	}

	// the admin can log straight in
	req, rec = newRequest(http.MethodPost, "/api/v1/login", marshallObj(t, map[string]string{
		"email":    "admin@sunrise.cd",
		"password": "Str0ngPwd!",
	}))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("login after register: code = %v; body %s", rec.Code, rec.Body.String())
	}

	t.Run("duplicate name rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/register", marshallObj(t, map[string]string{
			"name":     "Sunrise Academy",
			"email":    "other@sunrise.cd",
			"password": "Str0ngPwd!",
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/register", marshallObj(t, map[string]string{
			"name":     "Moonlight Academy",
			"email":    "admin@sunrise.cd",
			"password": "Str0ngPwd!",
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/register", marshallObj(t, map[string]string{"name": "No Creds"}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_authApi_login(t *testing.T) {
	ta := newTestApp(t)
	_, adm := ta.createSchoolWithAdmin(t, "Sunrise Academy", "admin@sunrise.cd")

	tests := []httpTest{
		{
			name: "valid credentials", method: http.MethodPost, path: "/api/v1/login",
			body: marshallObj(t, map[string]string{"email": adm.Email, "password": "Str0ngPwd!"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/v1/login",
			body:     marshallObj(t, map[string]string{"email": adm.Email, "password": "nope"}),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "invalid login credentials"}),
		},
		{
			name: "unknown email fails identically", method: http.MethodPost, path: "/api/v1/login",
			body:     marshallObj(t, map[string]string{"email": "ghost@sunrise.cd", "password": "Str0ngPwd!"}),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "invalid login credentials"}),
		},
		{
			name: "missing password", method: http.MethodPost, path: "/api/v1/login",
			body:     marshallObj(t, map[string]string{"email": adm.Email}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	ta := newTestApp(t)
	_, adm := ta.createSchoolWithAdmin(t, "Sunrise Academy", "admin@sunrise.cd")

	login := func(t *testing.T) auth.TokenPair {
		t.Helper()
		req, rec := newRequest(http.MethodPost, "/api/v1/login", marshallObj(t, map[string]string{
			"email": adm.Email, "password": "Str0ngPwd!",
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("login failed: %s", rec.Body.String())
		}
		var pair auth.TokenPair
		if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
			t.Fatalf("unmarshalling pair: %v", err)
		}
		return pair
	}
	refresh := func(t *testing.T, token string) (*auth.TokenPair, int) {
		t.Helper()
		req, rec := newRequest(http.MethodPost, "/api/v1/refreshToken", marshallObj(t, map[string]string{
			"refreshToken": token,
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return nil, rec.Code
		}
		var pair auth.TokenPair
		if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
			t.Fatalf("unmarshalling pair: %v", err)
		}
		return &pair, rec.Code
	}

	t.Run("exchange rotates the token", func(t *testing.T) {
		pair := login(t)
		newPair, code := refresh(t, pair.RefreshToken)
		if code != http.StatusOK {
			t.Fatalf("refresh: code = %v", code)
		}
		if newPair.RefreshToken == pair.RefreshToken {
			t.Error("refresh token was not rotated")
		}

		// single-use: the spent token is dead
		if _, code = refresh(t, pair.RefreshToken); code != http.StatusUnauthorized {
			t.Errorf("replay: code = %v; want %v", code, http.StatusUnauthorized)
		}
		// the replacement works
		if _, code = refresh(t, newPair.RefreshToken); code != http.StatusOK {
			t.Errorf("rotated: code = %v; want %v", code, http.StatusOK)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/refreshToken", marshallObj(t, map[string]string{}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, code := refresh(t, "not-a-token"); code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", code, http.StatusUnauthorized)
		}
	})

	t.Run("access token is rejected", func(t *testing.T) {
		pair := login(t)
		if _, code := refresh(t, pair.AccessToken); code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", code, http.StatusUnauthorized)
		}
	})
}

func Test_authApi_revokeRefreshTokens(t *testing.T) {
	ta := newTestApp(t)
	_, adm := ta.createSchoolWithAdmin(t, "Sunrise Academy", "admin@sunrise.cd")
	_, other := ta.createSchoolWithAdmin(t, "Moonlight Academy", "admin@moonlight.cd")
	super := testutil.CreateUser(t, ta.usrRepo, ta.conf.SuperAdminEmail, "Str0ngPwd!", user.RoleAdmin, "")

	pair, err := ta.authSvc.IssuePair(context.Background(), adm)
	if err != nil {
		t.Fatalf("IssuePair() failed: %v", err)
	}

	t.Run("requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/revokeRefreshTokens")
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("cannot revoke another user's tokens", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/revokeRefreshTokens", ta.getToken(t, other),
			marshallObj(t, map[string]string{"userId": adm.ID}))
		ta.app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errPermissionDenied)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("revokes own tokens by default", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/revokeRefreshTokens", ta.getToken(t, adm))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		// the outstanding refresh token is now useless
		req, rec = newRequest(http.MethodPost, "/api/v1/refreshToken", marshallObj(t, map[string]string{
			"refreshToken": pair.RefreshToken,
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("refresh after revoke: code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("super admin may revoke anyone's", func(t *testing.T) {
		otherPair, err := ta.authSvc.IssuePair(context.Background(), other)
		if err != nil {
			t.Fatalf("IssuePair() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodPost, "/api/v1/revokeRefreshTokens", ta.getToken(t, super),
			marshallObj(t, map[string]string{"userId": other.ID}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newRequest(http.MethodPost, "/api/v1/refreshToken", marshallObj(t, map[string]string{
			"refreshToken": otherPair.RefreshToken,
		}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("refresh after revoke: code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})
}

func Test_authApi_profile(t *testing.T) {
	ta := newTestApp(t)
	sch, _ := ta.createSchoolWithAdmin(t, "Sunrise Academy", "admin@sunrise.cd")
	stdUsr := testutil.CreateUser(t, ta.usrRepo, "jane@sunrise.cd", "Str0ngPwd!", user.RoleStudent, sch.ID)
	std := testutil.CreateStudent(t, ta.rosterRepo, sch.ID, stdUsr.ID, "Jane", "Doe")

	t.Run("requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/v1/profile")
		ta.app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("student sees their profile record", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/profile", ta.getToken(t, stdUsr))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var res echoapi.ProfileResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.User.ID != stdUsr.ID {
			t.Errorf("user ID = %q; want %q", res.User.ID, stdUsr.ID)
		}
		if res.Student == nil || res.Student.ID != std.ID {
			t.Errorf("student record = %+v; want ID %q", res.Student, std.ID)
		}
		if res.Teacher != nil {
			t.Error("unexpected teacher record on a student profile")
		}
	})
}
