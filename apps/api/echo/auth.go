package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/auth"
)

var contextTokenKey = "userToken"

// newJWTConfig builds the JWT auth middleware config. Only access tokens are
// accepted here; refresh tokens are signed with a different key and never
// authenticate a request.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(auth.Claims),
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			return *claims, nil
		}
	}
	return auth.Claims{}, errUnauthorized
}

// requireRule gates a route on the role part of an authorization Rule. Tenant
// and ownership checks stay in the handlers, where the resource is at hand.
func requireRule(policy auth.Policy, rule auth.Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if err = policy.Permit(rule, claims); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}
