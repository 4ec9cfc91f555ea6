package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

var (
	NowFunc = time.Now // mockable

	// ErrInvalidToken covers every verification failure: bad signature,
	// expiry, malformed input. Callers never learn which check failed.
	ErrInvalidToken = errors.New("invalid token")
)

// Issuer creates and verifies the signed access and refresh tokens. Both
// operations are pure given the configured secrets and the clock; refresh
// tokens are signed with a secret distinct from access tokens.
type Issuer struct {
	conf *core.Config
}

func NewIssuer(conf *core.Config) Issuer {
	return Issuer{conf: conf}
}

// AccessToken encodes the user identity into a signed, time-bounded token.
func (iss Issuer) AccessToken(usr user.User) (string, error) {
	claims := newClaims(iss.conf, usr, iss.conf.Server.JWTExpirationDelta, "")
	return signToken(claims, iss.conf.SecretKey)
}

// RefreshToken encodes the same identity plus the whitelist record ID,
// signed with the refresh secret and a longer TTL.
func (iss Issuer) RefreshToken(usr user.User, tokenID string) (string, error) {
	claims := newClaims(iss.conf, usr, iss.conf.Server.JWTRefreshExpirationDelta, tokenID)
	return signToken(claims, iss.conf.RefreshSecretKey)
}

func (iss Issuer) VerifyAccessToken(token string) (Claims, error) {
	return verifyToken(token, iss.conf.SecretKey)
}

func (iss Issuer) VerifyRefreshToken(token string) (Claims, error) {
	return verifyToken(token, iss.conf.RefreshSecretKey)
}

func signToken(claims *Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(key)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func verifyToken(token string, key []byte) (Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}

// HashToken returns the hex sha256 digest of a token; only digests are stored
// in the whitelist, never raw tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func hashEqual(hash, other string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(other)) == 1
}
