package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
)

type academicsApi struct {
	svc       *academics.Service
	rosterSvc *roster.Service
	policy    auth.Policy
	validate  *validator.Validate
}

func registerAcademicsAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := academicsApi{
		svc:       opts.AcademicsSvc,
		rosterSvc: opts.RosterSvc,
		policy:    policy,
		validate:  opts.Validate,
	}

	admin := requireRule(policy, auth.AdminOnly)
	staff := requireRule(policy, auth.AdminOrTeacher)
	student := requireRule(policy, auth.StudentOnly)

	cg := g.Group("/classes", jwt, admin)
	cg.GET("", api.queryClasses)
	cg.POST("", api.createClass)
	cg.GET("/:id", api.retrieveClass)
	cg.PUT("/:id", api.updateClass)
	cg.DELETE("/:id", api.destroyClass)

	sg := g.Group("/subjects", jwt, admin)
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject)
	sg.GET("/:id", api.retrieveSubject)
	sg.PUT("/:id", api.updateSubject)
	sg.DELETE("/:id", api.destroySubject)

	eg := g.Group("/exams", jwt, admin)
	eg.GET("", api.queryExams)
	eg.POST("", api.createExam)
	eg.GET("/:id", api.retrieveExam)
	eg.PUT("/:id", api.updateExam)
	eg.DELETE("/:id", api.destroyExam)

	rg := g.Group("/results", jwt)
	rg.GET("", api.queryResults, staff)
	rg.POST("", api.createResult, staff)
	rg.GET("/mine", api.queryOwnResults, student)
	rg.GET("/:id", api.retrieveResult, staff)
	rg.PUT("/:id", api.updateResult, staff)
	rg.DELETE("/:id", api.destroyResult, staff)

	ag := g.Group("/attendances", jwt)
	ag.GET("", api.queryAttendance, staff)
	ag.POST("", api.createAttendance, staff)
	ag.GET("/mine", api.queryOwnAttendance, student)
	ag.GET("/:id", api.retrieveAttendance, staff)
	ag.PUT("/:id", api.updateAttendance, staff)
	ag.DELETE("/:id", api.destroyAttendance, staff)
}

// Classes

func (api *academicsApi) queryClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.QueryClassesBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *academicsApi) createClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academics.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *academicsApi) retrieveClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, cls); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicsApi) updateClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, cls); err != nil {
		return err
	}

	var data academics.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	cls, err = api.svc.UpdateClass(ctx.Request().Context(), cls.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *academicsApi) destroyClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	cls, err := api.svc.GetClassByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, cls); err != nil {
		return err
	}
	if err = api.svc.DeleteClass(ctx.Request().Context(), cls.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subjects

func (api *academicsApi) querySubjects(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.QuerySubjectsBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *academicsApi) createSubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academics.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	sub, err := api.svc.CreateSubject(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *academicsApi) retrieveSubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.GetSubjectByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, sub); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *academicsApi) updateSubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.GetSubjectByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, sub); err != nil {
		return err
	}

	var data academics.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	sub, err = api.svc.UpdateSubject(ctx.Request().Context(), sub.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *academicsApi) destroySubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.GetSubjectByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, sub); err != nil {
		return err
	}
	if err = api.svc.DeleteSubject(ctx.Request().Context(), sub.ID); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Exams

func (api *academicsApi) queryExams(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exams, err := api.svc.QueryExamsBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *academicsApi) createExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academics.NewExam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	exm, err := api.svc.CreateExam(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return ctx.JSON(http.StatusCreated, exm)
}

func (api *academicsApi) retrieveExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exm, err := api.svc.GetExamByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exm); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exm)
}

func (api *academicsApi) updateExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exm, err := api.svc.GetExamByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exm); err != nil {
		return err
	}

	var data academics.NewExam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	exm, err = api.svc.UpdateExam(ctx.Request().Context(), exm.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exm)
}

func (api *academicsApi) destroyExam(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exm, err := api.svc.GetExamByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exm); err != nil {
		return err
	}
	if err = api.svc.DeleteExam(ctx.Request().Context(), exm.ID); err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Results

func (api *academicsApi) queryResults(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	// teachers only see marks for exams in subjects they teach
	if claims.Role == user.RoleTeacher {
		tch, err := api.rosterSvc.GetTeacherByUserID(ctx.Request().Context(), claims.UserID())
		if err != nil {
			return err
		}
		results, err := api.svc.QueryResultsOfTeacher(ctx.Request().Context(), tch.ID, claims.SchoolID)
		if err != nil {
			return errors.Wrap(err, "querying teacher's results")
		}
		return ctx.JSON(http.StatusOK, results)
	}
	results, err := api.svc.QueryResultsBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *academicsApi) queryOwnResults(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.rosterSvc.GetStudentByUserID(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}
	results, err := api.svc.QueryResultsOfStudent(ctx.Request().Context(), std.ID)
	if err != nil {
		return errors.Wrap(err, "querying student's results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *academicsApi) createResult(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academics.NewResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	res, err := api.svc.CreateResult(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *academicsApi) retrieveResult(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.GetResultByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, res); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academicsApi) updateResult(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.GetResultByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, res); err != nil {
		return err
	}

	var data academics.NewResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	res, err = api.svc.UpdateResult(ctx.Request().Context(), res.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *academicsApi) destroyResult(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.GetResultByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, res); err != nil {
		return err
	}
	if err = api.svc.DeleteResult(ctx.Request().Context(), res.ID); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Attendance

func (api *academicsApi) queryAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.QueryAttendanceBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *academicsApi) queryOwnAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	std, err := api.rosterSvc.GetStudentByUserID(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}
	records, err := api.svc.QueryAttendanceOfStudent(ctx.Request().Context(), std.ID)
	if err != nil {
		return errors.Wrap(err, "querying student's attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

// createAttendance records the taker on the record: a teacher is always the
// taker themselves, an admin names one via teacher_id.
func (api *academicsApi) createAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data academics.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	teacherID := data.TeacherID
	if claims.Role == user.RoleTeacher {
		tch, err := api.rosterSvc.GetTeacherByUserID(ctx.Request().Context(), claims.UserID())
		if err != nil {
			return err
		}
		teacherID = tch.ID
	} else if teacherID == "" {
		return core.NewValidationError(
			errors.New("invalid attendance"),
			core.FieldError{Field: "teacher_id", Error: "teacher_id is required"},
		)
	}

	att, err := api.svc.CreateAttendance(ctx.Request().Context(), claims.SchoolID, teacherID, data)
	if err != nil {
		return errors.Wrap(err, "creating attendance")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *academicsApi) retrieveAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	att, err := api.svc.GetAttendanceByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, att); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *academicsApi) updateAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	att, err := api.svc.GetAttendanceByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, att); err != nil {
		return err
	}
	if err = api.permitAttendanceOwner(ctx, claims, att); err != nil {
		return err
	}

	var data academics.UpdateAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	att, err = api.svc.UpdateAttendance(ctx.Request().Context(), att.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *academicsApi) destroyAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	att, err := api.svc.GetAttendanceByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, att); err != nil {
		return err
	}
	if err = api.permitAttendanceOwner(ctx, claims, att); err != nil {
		return err
	}
	if err = api.svc.DeleteAttendance(ctx.Request().Context(), att.ID); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// permitAttendanceOwner lets admins touch any record but restricts teachers
// to records they took themselves.
func (api *academicsApi) permitAttendanceOwner(ctx echo.Context, claims auth.Claims, att academics.Attendance) error {
	if claims.Role != user.RoleTeacher {
		return nil
	}
	tch, err := api.rosterSvc.GetTeacherByUserID(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return err
	}
	return auth.PermitOwner(tch.ID, att)
}
