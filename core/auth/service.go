package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

type (
	// RefreshToken is a whitelist record. ID is the token's jti claim; the
	// token string itself is only ever stored hashed. At most one active
	// record exists per issued refresh token.
	RefreshToken struct {
		ID          string
		UserID      string
		HashedToken string
		Revoked     bool
		CreatedAt   time.Time // UTC
		UpdatedAt   time.Time // UTC
	}

	Repository interface {
		CreateRefreshToken(ctx context.Context, rt RefreshToken) (RefreshToken, error)
		GetRefreshTokenByID(ctx context.Context, id string) (RefreshToken, error)
		// RotateRefreshToken deletes the exchanged record and stores its
		// replacement in a single atomic step: at no point are the old and
		// new tokens honored simultaneously.
		RotateRefreshToken(ctx context.Context, oldID string, rt RefreshToken) (RefreshToken, error)
		// RevokeUserRefreshTokens marks every record owned by userID as
		// revoked. Idempotent.
		RevokeUserRefreshTokens(ctx context.Context, userID string) error
	}

	TokenPair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}

	// Service implements the token lifecycle: issuance on login/register,
	// rotation-on-use of refresh tokens, and bulk revocation.
	Service struct {
		repo    Repository
		usrRepo user.Repository
		issuer  Issuer
	}
)

func NewService(conf *core.Config, repo Repository, usrRepo user.Repository) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		issuer:  NewIssuer(conf),
	}
}

func (svc *Service) Issuer() Issuer { return svc.issuer }

// IssuePair creates a fresh access/refresh pair for usr and whitelists the
// refresh token under a new jti.
func (svc *Service) IssuePair(ctx context.Context, usr user.User) (TokenPair, error) {
	return svc.issuePair(ctx, usr, "")
}

func (svc *Service) issuePair(ctx context.Context, usr user.User, rotatedID string) (TokenPair, error) {
	access, err := svc.issuer.AccessToken(usr)
	if err != nil {
		return TokenPair{}, err
	}

	tokenID := uuid.New().String()
	refresh, err := svc.issuer.RefreshToken(usr, tokenID)
	if err != nil {
		return TokenPair{}, err
	}

	now := NowFunc().UTC()
	rec := RefreshToken{
		ID:          tokenID,
		UserID:      usr.ID,
		HashedToken: HashToken(refresh),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rotatedID != "" {
		_, err = svc.repo.RotateRefreshToken(ctx, rotatedID, rec)
	} else {
		_, err = svc.repo.CreateRefreshToken(ctx, rec)
	}
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login checks the credentials and issues a token pair. Unknown email and
// wrong password fail identically.
func (svc *Service) Login(ctx context.Context, email, pwd string) (TokenPair, error) {
	usr, err := svc.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == user.ErrNotFound {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return svc.IssuePair(ctx, usr)
}

// Refresh exchanges a valid, non-revoked refresh token for a new pair,
// deleting the presented token's record in the same transaction that stores
// the new one. A replayed token finds no record and fails; all failure
// branches are indistinguishable to the caller.
func (svc *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := svc.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}

	rec, err := svc.repo.GetRefreshTokenByID(ctx, claims.TokenID())
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	if rec.Revoked {
		return TokenPair{}, ErrInvalidToken
	}
	// a validly-signed token whose backing record was rotated out carries a
	// stale hash; reject it
	if !hashEqual(HashToken(refreshToken), rec.HashedToken) {
		return TokenPair{}, ErrInvalidToken
	}

	usr, err := svc.usrRepo.GetUserByID(ctx, claims.UserID())
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}

	return svc.issuePair(ctx, usr, rec.ID)
}

// RevokeAll invalidates every outstanding refresh token owned by userID.
// Already-issued access tokens stay valid until natural expiry.
func (svc *Service) RevokeAll(ctx context.Context, userID string) error {
	return svc.repo.RevokeUserRefreshTokens(ctx, userID)
}
