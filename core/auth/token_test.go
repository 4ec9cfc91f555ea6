package auth_test

import (
	"testing"
	"time"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/user"
	testutil "github.com/darasadev/darasa/tests"
)

func TestIssuer_accessTokenRoundTrip(t *testing.T) {
	conf := testutil.NewConfig()
	iss := auth.NewIssuer(conf)
	usr := user.User{ID: "u1", Email: "admin@test.cd", Role: user.RoleAdmin, SchoolID: "s1"}

	token, err := iss.AccessToken(usr)
	if err != nil {
		t.Fatalf("AccessToken() failed: %v", err)
	}

	claims, err := iss.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() failed: %v", err)
	}
	if claims.UserID() != usr.ID {
		t.Errorf("UserID() = %q; want %q", claims.UserID(), usr.ID)
	}
	if claims.Email != usr.Email {
		t.Errorf("Email = %q; want %q", claims.Email, usr.Email)
	}
	if claims.Role != usr.Role {
		t.Errorf("Role = %q; want %q", claims.Role, usr.Role)
	}
	if claims.SchoolID != usr.SchoolID {
		t.Errorf("SchoolID = %q; want %q", claims.SchoolID, usr.SchoolID)
	}
	if claims.TokenID() != "" {
		t.Errorf("TokenID() = %q; want empty on access tokens", claims.TokenID())
	}
}

func TestIssuer_refreshTokenCarriesTokenID(t *testing.T) {
	conf := testutil.NewConfig()
	iss := auth.NewIssuer(conf)
	usr := user.User{ID: "u1", Email: "admin@test.cd", Role: user.RoleAdmin, SchoolID: "s1"}

	token, err := iss.RefreshToken(usr, "jti-123")
	if err != nil {
		t.Fatalf("RefreshToken() failed: %v", err)
	}

	claims, err := iss.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() failed: %v", err)
	}
	if claims.TokenID() != "jti-123" {
		t.Errorf("TokenID() = %q; want %q", claims.TokenID(), "jti-123")
	}
}

// A refresh token must never pass access-token verification and vice versa:
// the two are signed with distinct secrets.
func TestIssuer_secretsAreDistinct(t *testing.T) {
	conf := testutil.NewConfig()
	iss := auth.NewIssuer(conf)
	usr := user.User{ID: "u1", Email: "admin@test.cd", Role: user.RoleAdmin, SchoolID: "s1"}

	access, err := iss.AccessToken(usr)
	if err != nil {
		t.Fatalf("AccessToken() failed: %v", err)
	}
	refresh, err := iss.RefreshToken(usr, "jti-123")
	if err != nil {
		t.Fatalf("RefreshToken() failed: %v", err)
	}

	if _, err = iss.VerifyAccessToken(refresh); err != auth.ErrInvalidToken {
		t.Errorf("VerifyAccessToken(refresh) err = %v; want ErrInvalidToken", err)
	}
	if _, err = iss.VerifyRefreshToken(access); err != auth.ErrInvalidToken {
		t.Errorf("VerifyRefreshToken(access) err = %v; want ErrInvalidToken", err)
	}
}

func TestIssuer_expiredTokenRejected(t *testing.T) {
	conf := testutil.NewConfig()
	iss := auth.NewIssuer(conf)
	usr := user.User{ID: "u1", Email: "admin@test.cd", Role: user.RoleAdmin, SchoolID: "s1"}

	auth.NowFunc = func() time.Time {
		return time.Now().Add(-conf.Server.JWTExpirationDelta - time.Minute)
	}
	defer func() { auth.NowFunc = time.Now }()

	token, err := iss.AccessToken(usr)
	if err != nil {
		t.Fatalf("AccessToken() failed: %v", err)
	}

	auth.NowFunc = time.Now
	if _, err = iss.VerifyAccessToken(token); err != auth.ErrInvalidToken {
		t.Errorf("VerifyAccessToken(expired) err = %v; want ErrInvalidToken", err)
	}
}

func TestIssuer_garbageRejected(t *testing.T) {
	iss := auth.NewIssuer(testutil.NewConfig())
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := iss.VerifyAccessToken(token); err != auth.ErrInvalidToken {
			t.Errorf("VerifyAccessToken(%q) err = %v; want ErrInvalidToken", token, err)
		}
	}
}

func TestHashToken(t *testing.T) {
	h1 := auth.HashToken("some-token")
	h2 := auth.HashToken("some-token")
	if h1 != h2 {
		t.Error("HashToken() is not deterministic")
	}
	if h1 == auth.HashToken("other-token") {
		t.Error("HashToken() collided on distinct inputs")
	}
	if h1 == "some-token" {
		t.Error("HashToken() returned its input")
	}
	if len(h1) != 64 { // hex sha256
		t.Errorf("len(HashToken()) = %d; want 64", len(h1))
	}
}
