package auth_test

import (
	"context"
	"testing"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/user"
	dummydb "github.com/darasadev/darasa/storage/database/dummy"
	testutil "github.com/darasadev/darasa/tests"
)

func newTestService(t *testing.T) (*auth.Service, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	svc := auth.NewService(testutil.NewConfig(), dummydb.NewRefreshTokenRepository(db), usrRepo)
	return svc, usrRepo
}

func TestService_Login(t *testing.T) {
	svc, usrRepo := newTestService(t)
	ctx := context.Background()
	testutil.CreateUser(t, usrRepo, "admin@test.cd", "Str0ngPwd!", user.RoleAdmin, "s1")

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "admin@test.cd", "Str0ngPwd!")
		if err != nil {
			t.Fatalf("Login() failed: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("Login() returned an incomplete pair")
		}
		if pair.AccessToken == pair.RefreshToken {
			t.Error("Login() returned identical tokens")
		}
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		if _, err := svc.Login(ctx, "  Admin@Test.CD ", "Str0ngPwd!"); err != nil {
			t.Errorf("Login() failed: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, "admin@test.cd", "nope"); err != auth.ErrInvalidCredentials {
			t.Errorf("Login() err = %v; want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		if _, err := svc.Login(ctx, "ghost@test.cd", "Str0ngPwd!"); err != auth.ErrInvalidCredentials {
			t.Errorf("Login() err = %v; want ErrInvalidCredentials", err)
		}
	})
}

func TestService_Refresh_rotation(t *testing.T) {
	svc, usrRepo := newTestService(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, usrRepo, "admin@test.cd", "Str0ngPwd!", user.RoleAdmin, "s1")

	pair, err := svc.IssuePair(ctx, usr)
	if err != nil {
		t.Fatalf("IssuePair() failed: %v", err)
	}

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if newPair.RefreshToken == pair.RefreshToken {
		t.Error("Refresh() did not rotate the refresh token")
	}

	// the exchanged token is single-use: replaying it fails
	if _, err = svc.Refresh(ctx, pair.RefreshToken); err != auth.ErrInvalidToken {
		t.Errorf("Refresh(replayed) err = %v; want ErrInvalidToken", err)
	}

	// the replacement keeps working
	if _, err = svc.Refresh(ctx, newPair.RefreshToken); err != nil {
		t.Errorf("Refresh(rotated) failed: %v", err)
	}
}

func TestService_Refresh_rejectsForgeries(t *testing.T) {
	svc, usrRepo := newTestService(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, usrRepo, "admin@test.cd", "Str0ngPwd!", user.RoleAdmin, "s1")

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.Refresh(ctx, "not-a-token"); err != auth.ErrInvalidToken {
			t.Errorf("Refresh() err = %v; want ErrInvalidToken", err)
		}
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		pair, err := svc.IssuePair(ctx, usr)
		if err != nil {
			t.Fatalf("IssuePair() failed: %v", err)
		}
		if _, err = svc.Refresh(ctx, pair.AccessToken); err != auth.ErrInvalidToken {
			t.Errorf("Refresh(access) err = %v; want ErrInvalidToken", err)
		}
	})

	t.Run("validly signed token without a record", func(t *testing.T) {
		// signed with the right secret but its jti was never whitelisted
		orphan, err := svc.Issuer().RefreshToken(usr, "never-stored")
		if err != nil {
			t.Fatalf("RefreshToken() failed: %v", err)
		}
		if _, err = svc.Refresh(ctx, orphan); err != auth.ErrInvalidToken {
			t.Errorf("Refresh(orphan) err = %v; want ErrInvalidToken", err)
		}
	})
}

func TestService_RevokeAll(t *testing.T) {
	svc, usrRepo := newTestService(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, usrRepo, "admin@test.cd", "Str0ngPwd!", user.RoleAdmin, "s1")
	other := testutil.CreateUser(t, usrRepo, "other@test.cd", "Str0ngPwd!", user.RoleAdmin, "s1")

	pair1, err := svc.IssuePair(ctx, usr)
	if err != nil {
		t.Fatalf("IssuePair() failed: %v", err)
	}
	pair2, err := svc.IssuePair(ctx, usr)
	if err != nil {
		t.Fatalf("IssuePair() failed: %v", err)
	}
	otherPair, err := svc.IssuePair(ctx, other)
	if err != nil {
		t.Fatalf("IssuePair() failed: %v", err)
	}

	if err = svc.RevokeAll(ctx, usr.ID); err != nil {
		t.Fatalf("RevokeAll() failed: %v", err)
	}

	// every outstanding token of the user is dead, however well-formed
	if _, err = svc.Refresh(ctx, pair1.RefreshToken); err != auth.ErrInvalidToken {
		t.Errorf("Refresh(revoked) err = %v; want ErrInvalidToken", err)
	}
	if _, err = svc.Refresh(ctx, pair2.RefreshToken); err != auth.ErrInvalidToken {
		t.Errorf("Refresh(revoked) err = %v; want ErrInvalidToken", err)
	}

	// other users are untouched
	if _, err = svc.Refresh(ctx, otherPair.RefreshToken); err != nil {
		t.Errorf("Refresh(other user) failed: %v", err)
	}

	// idempotent
	if err = svc.RevokeAll(ctx, usr.ID); err != nil {
		t.Errorf("RevokeAll() second call failed: %v", err)
	}
	if err = svc.RevokeAll(ctx, "no-such-user"); err != nil {
		t.Errorf("RevokeAll(unknown) failed: %v", err)
	}
}
