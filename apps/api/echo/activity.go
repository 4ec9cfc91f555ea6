package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/activity"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/user"
)

type activityApi struct {
	svc       *activity.Service
	rosterSvc *roster.Service
	policy    auth.Policy
	validate  *validator.Validate
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := activityApi{
		svc:       opts.ActivitySvc,
		rosterSvc: opts.RosterSvc,
		policy:    policy,
		validate:  opts.Validate,
	}

	staff := requireRule(policy, auth.AdminOrTeacher)
	any := requireRule(policy, auth.AnyRole)

	eg := g.Group("/events", jwt)
	eg.GET("", api.queryEvents, any)
	eg.POST("", api.createEvent, staff)
	eg.GET("/:id", api.retrieveEvent, any)
	eg.PUT("/:id", api.updateEvent, staff)
	eg.DELETE("/:id", api.destroyEvent, staff)

	mg := g.Group("/messages", jwt, any)
	mg.GET("", api.queryMessages)
	mg.POST("", api.createMessage)
	mg.GET("/:id", api.retrieveMessage)
	mg.PUT("/:id", api.updateMessage)
	mg.DELETE("/:id", api.destroyMessage)
}

// Events

// queryEvents scopes the calendar to the caller: admins see the whole
// school, teachers and students see what is addressed to them.
func (api *activityApi) queryEvents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	switch claims.Role {
	case user.RoleTeacher:
		tch, err := api.rosterSvc.GetTeacherByUserID(rctx, claims.UserID())
		if err != nil {
			return err
		}
		events, err := api.svc.QueryEventsOfTeacher(rctx, tch.ID)
		if err != nil {
			return errors.Wrap(err, "querying teacher's events")
		}
		return ctx.JSON(http.StatusOK, events)
	case user.RoleStudent:
		std, err := api.rosterSvc.GetStudentByUserID(rctx, claims.UserID())
		if err != nil {
			return err
		}
		events, err := api.svc.QueryEventsOfStudent(rctx, std.ID)
		if err != nil {
			return errors.Wrap(err, "querying student's events")
		}
		return ctx.JSON(http.StatusOK, events)
	}

	events, err := api.svc.QueryEventsBySchool(rctx, claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *activityApi) createEvent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data activity.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	evt, err := api.svc.CreateEvent(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *activityApi) retrieveEvent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	evt, err := api.svc.GetEventByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, evt); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *activityApi) updateEvent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	evt, err := api.svc.GetEventByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, evt); err != nil {
		return err
	}

	var data activity.NewEvent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	evt, err = api.svc.UpdateEvent(ctx.Request().Context(), evt.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *activityApi) destroyEvent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	evt, err := api.svc.GetEventByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, evt); err != nil {
		return err
	}
	if err = api.svc.DeleteEvent(ctx.Request().Context(), evt.ID); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Messages

// queryMessages returns the caller's own messages. The super admin, who
// fields them, sees every school's inbox.
func (api *activityApi) queryMessages(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if api.policy.IsSuper(claims) {
		messages, err := api.svc.QueryMessages(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "querying messages")
		}
		return ctx.JSON(http.StatusOK, messages)
	}
	messages, err := api.svc.QueryMessagesOfUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "querying user's messages")
	}
	return ctx.JSON(http.StatusOK, messages)
}

func (api *activityApi) createMessage(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data activity.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	msg, err := api.svc.CreateMessage(ctx.Request().Context(), claims.SchoolID, claims.UserID(), data)
	if err != nil {
		return errors.Wrap(err, "creating message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *activityApi) retrieveMessage(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	msg, err := api.svc.GetMessageByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.permitMessage(claims, msg); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *activityApi) updateMessage(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	msg, err := api.svc.GetMessageByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.permitMessage(claims, msg); err != nil {
		return err
	}

	var data activity.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	msg, err = api.svc.UpdateMessage(ctx.Request().Context(), msg.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *activityApi) destroyMessage(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	msg, err := api.svc.GetMessageByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.permitMessage(claims, msg); err != nil {
		return err
	}
	if err = api.svc.DeleteMessage(ctx.Request().Context(), msg.ID); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// permitMessage restricts a message to its author; the super admin may act
// on any of them.
func (api *activityApi) permitMessage(claims auth.Claims, msg activity.Message) error {
	if api.policy.IsSuper(claims) {
		return nil
	}
	if err := api.policy.PermitTenant(claims, msg); err != nil {
		return err
	}
	return auth.PermitOwner(claims.UserID(), msg)
}
