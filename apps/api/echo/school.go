package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/school"
)

type schoolApi struct {
	svc      *school.Service
	policy   auth.Policy
	validate *validator.Validate
}

// School management is reserved for the configured super admin; school admins
// only manage resources inside their own school.
func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := schoolApi{
		svc:      opts.SchoolSvc,
		policy:   policy,
		validate: opts.Validate,
	}

	super := requireRule(policy, auth.SuperOnly)

	sg := g.Group("/schools", jwt, super)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)

	stg := g.Group("/settings", jwt, super)
	stg.GET("", api.querySettings)
	stg.POST("", api.createSetting)
	stg.GET("/:id", api.retrieveSetting)
	stg.PUT("/:id", api.updateSetting)
	stg.DELETE("/:id", api.destroySetting)

	ng := g.Group("/notices", jwt, super)
	ng.GET("", api.queryNotices)
	ng.POST("", api.createNotice)
	ng.GET("/:id", api.retrieveNotice)
	ng.PUT("/:id", api.updateNotice)
	ng.DELETE("/:id", api.destroyNotice)
}

// Schools

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	data.Clean()
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	sch, _, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) update(ctx echo.Context) error {
	var data school.UpdateSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchool")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	sch, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Settings

func (api *schoolApi) querySettings(ctx echo.Context) error {
	settings, err := api.svc.QuerySettings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying settings")
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *schoolApi) createSetting(ctx echo.Context) error {
	var data struct {
		school.NewSetting
		SchoolID string `json:"school_id" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSetting")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	set, err := api.svc.CreateSetting(ctx.Request().Context(), data.SchoolID, data.NewSetting)
	if err != nil {
		return errors.Wrap(err, "creating setting")
	}
	return ctx.JSON(http.StatusCreated, set)
}

func (api *schoolApi) retrieveSetting(ctx echo.Context) error {
	set, err := api.svc.GetSettingByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, set)
}

func (api *schoolApi) updateSetting(ctx echo.Context) error {
	var data school.NewSetting
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSetting")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	set, err := api.svc.UpdateSetting(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, set)
}

func (api *schoolApi) destroySetting(ctx echo.Context) error {
	if _, err := api.svc.GetSettingByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.DeleteSetting(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting setting")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Notices

func (api *schoolApi) queryNotices(ctx echo.Context) error {
	notices, err := api.svc.QueryNotices(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *schoolApi) createNotice(ctx echo.Context) error {
	var data struct {
		school.NewNotice
		SchoolID string `json:"school_id" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	ntc, err := api.svc.CreateNotice(ctx.Request().Context(), data.SchoolID, data.NewNotice)
	if err != nil {
		return errors.Wrap(err, "creating notice")
	}
	return ctx.JSON(http.StatusCreated, ntc)
}

func (api *schoolApi) retrieveNotice(ctx echo.Context) error {
	ntc, err := api.svc.GetNoticeByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ntc)
}

func (api *schoolApi) updateNotice(ctx echo.Context) error {
	var data school.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	ntc, err := api.svc.UpdateNotice(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ntc)
}

func (api *schoolApi) destroyNotice(ctx echo.Context) error {
	if _, err := api.svc.GetNoticeByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.DeleteNotice(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting notice")
	}
	return ctx.NoContent(http.StatusNoContent)
}
