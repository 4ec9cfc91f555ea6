package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/user"
)

// Claims is the authorization payload transmitted via a JWT. The standard
// Subject carries the user ID; Id carries the refresh token ID (jti) and is
// empty on access tokens.
type Claims struct {
	jwt.StandardClaims
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	SchoolID string `json:"school_id,omitempty"`
}

func (c Claims) UserID() string  { return c.Subject }
func (c Claims) TokenID() string { return c.Id }

func newClaims(conf *core.Config, usr user.User, ttl time.Duration, tokenID string) *Claims {
	now := NowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Id:        tokenID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:    usr.Email,
		Role:     usr.Role,
		SchoolID: usr.SchoolID,
	}
}
