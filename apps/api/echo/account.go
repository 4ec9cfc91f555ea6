package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
)

type (
	authApi struct {
		authSvc   *auth.Service
		usrSvc    *user.Service
		schSvc    *school.Service
		rosterSvc *roster.Service
		policy    auth.Policy
		validate  *validator.Validate
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	RefreshRequest struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	RevokeRequest struct {
		UserID string `json:"userId"`
	}

	RegisterResponse struct {
		School school.School  `json:"school"`
		User   user.User      `json:"user"`
		Tokens auth.TokenPair `json:"tokens"`
	}

	ProfileResponse struct {
		User    user.User       `json:"user"`
		Student *roster.Student `json:"student,omitempty"`
		Teacher *roster.Teacher `json:"teacher,omitempty"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := authApi{
		authSvc:   opts.AuthSvc,
		usrSvc:    opts.UserSvc,
		schSvc:    opts.SchoolSvc,
		rosterSvc: opts.RosterSvc,
		policy:    policy,
		validate:  opts.Validate,
	}

	// un-authed endpoints
	g.POST("/register", api.register)
	g.POST("/login", api.login)
	g.POST("/refreshToken", api.refreshToken)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.POST("/revokeRefreshTokens", api.revokeRefreshTokens)
	ag.GET("/profile", api.profile, requireRule(policy, auth.AnyRole))
}

// register creates a school together with its admin account and logs the
// admin in.
func (api *authApi) register(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	data.Clean()
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	sch, usr, err := api.schSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering school")
	}

	tokens, err := api.authSvc.IssuePair(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "issuing tokens")
	}

	return ctx.JSON(http.StatusCreated, RegisterResponse{School: sch, User: usr, Tokens: tokens})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	tokens, err := api.authSvc.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tokens)
}

// refreshToken exchanges a whitelisted refresh token for a fresh pair. The
// presented token is spent whether or not a client ever uses the new one.
func (api *authApi) refreshToken(ctx echo.Context) error {
	var data RefreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefreshRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	tokens, err := api.authSvc.Refresh(ctx.Request().Context(), data.RefreshToken)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tokens)
}

// revokeRefreshTokens invalidates all refresh tokens of the target user.
// Callers may only revoke their own tokens; the super admin may revoke
// anyone's.
func (api *authApi) revokeRefreshTokens(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data RevokeRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RevokeRequest")
	}

	target := data.UserID
	if target == "" {
		target = claims.UserID()
	}
	if target != claims.UserID() && !api.policy.IsSuper(claims) {
		return auth.ErrPermissionDenied
	}

	if err = api.authSvc.RevokeAll(ctx.Request().Context(), target); err != nil {
		return errors.Wrap(err, "revoking refresh tokens")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "All refresh tokens have been revoked."})
}

func (api *authApi) profile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	usr, err := api.usrSvc.GetByID(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}

	res := ProfileResponse{User: usr}
	switch {
	case usr.IsStudent():
		if std, err := api.rosterSvc.GetStudentByUserID(ctx.Request().Context(), usr.ID); err == nil {
			res.Student = &std
		}
	case usr.IsTeacher():
		if tch, err := api.rosterSvc.GetTeacherByUserID(ctx.Request().Context(), usr.ID); err == nil {
			res.Teacher = &tch
		}
	}
	return ctx.JSON(http.StatusOK, res)
}
