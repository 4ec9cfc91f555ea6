package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
)

type userApi struct {
	svc       *user.Service
	rosterSvc *roster.Service
	policy    auth.Policy
	validate  *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := userApi{
		svc:       opts.UserSvc,
		rosterSvc: opts.RosterSvc,
		policy:    policy,
		validate:  opts.Validate,
	}

	ug := g.Group("/users", jwt, requireRule(policy, auth.AdminOrSuper))
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.GET("/:id", api.retrieve)
	ug.DELETE("/:id", api.destroy)
}

func (api *userApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	schoolID := claims.SchoolID
	if api.policy.IsSuper(claims) {
		if id := ctx.QueryParam("school_id"); id != "" {
			schoolID = id
		}
	}

	users, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data user.NewUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	// the super admin may create users in any school; admins only in theirs
	if !api.policy.IsSuper(claims) {
		data.SchoolID = claims.SchoolID
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}
	if err = api.svc.CheckEmailUniqueness(ctx.Request().Context(), data.Email); err != nil {
		return err
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, usr); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, usr); err != nil {
		return err
	}

	// student and teacher accounts are aggregates: removing one removes the
	// profile and the account together
	switch usr.Role {
	case user.RoleStudent:
		std, err := api.rosterSvc.GetStudentByUserID(ctx.Request().Context(), usr.ID)
		if err == nil {
			if err = api.rosterSvc.DeleteStudent(ctx.Request().Context(), std.ID); err != nil {
				return errors.Wrap(err, "deleting student")
			}
			return ctx.NoContent(http.StatusNoContent)
		}
		if err != roster.ErrNotFound {
			return err
		}
	case user.RoleTeacher:
		tch, err := api.rosterSvc.GetTeacherByUserID(ctx.Request().Context(), usr.ID)
		if err == nil {
			if err = api.rosterSvc.DeleteTeacher(ctx.Request().Context(), tch.ID); err != nil {
				return errors.Wrap(err, "deleting teacher")
			}
			return ctx.NoContent(http.StatusNoContent)
		}
		if err != roster.ErrNotFound {
			return err
		}
	}

	if err = api.svc.Delete(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
