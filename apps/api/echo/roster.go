package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/roster"
)

type rosterApi struct {
	svc      *roster.Service
	policy   auth.Policy
	validate *validator.Validate
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := rosterApi{
		svc:      opts.RosterSvc,
		policy:   policy,
		validate: opts.Validate,
	}

	admin := requireRule(policy, auth.AdminOnly)

	sg := g.Group("/students", jwt)
	sg.GET("", api.queryStudents, admin)
	sg.POST("", api.createStudent, admin)
	// teachers see the students they have taken attendance for
	sg.GET("/mine", api.queryOwnStudents, requireRule(policy, auth.TeacherOnly))
	sg.GET("/:id", api.retrieveStudent, admin)
	sg.PUT("/:id", api.updateStudent, admin)
	sg.DELETE("/:id", api.destroyStudent, admin)

	tg := g.Group("/teachers", jwt, admin)
	tg.GET("", api.queryTeachers)
	tg.POST("", api.createTeacher)
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher)
	tg.DELETE("/:id", api.destroyTeacher)
}

// Students

func (api *rosterApi) queryStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.QueryStudentsBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) queryOwnStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacherByUserID(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}
	students, err := api.svc.QueryStudentsOfTeacher(ctx.Request().Context(), tch.ID, claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying teacher's students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) createStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data roster.NewProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	std, err := api.svc.CreateStudent(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *rosterApi) retrieveStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, std); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *rosterApi) updateStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, std); err != nil {
		return err
	}

	var data roster.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	std, err = api.svc.UpdateStudent(ctx.Request().Context(), std.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

// destroyStudent removes the profile and its backing user account together.
func (api *rosterApi) destroyStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.svc.GetStudentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, std); err != nil {
		return err
	}

	if err = api.svc.DeleteStudent(ctx.Request().Context(), std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teachers

func (api *rosterApi) queryTeachers(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	teachers, err := api.svc.QueryTeachersBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *rosterApi) createTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data roster.NewProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	tch, err := api.svc.CreateTeacher(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *rosterApi) retrieveTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacherByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, tch); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *rosterApi) updateTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacherByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, tch); err != nil {
		return err
	}

	var data roster.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	tch, err = api.svc.UpdateTeacher(ctx.Request().Context(), tch.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tch)
}

// destroyTeacher removes the profile and its backing user account together.
func (api *rosterApi) destroyTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	tch, err := api.svc.GetTeacherByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, tch); err != nil {
		return err
	}

	if err = api.svc.DeleteTeacher(ctx.Request().Context(), tch.ID); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
