package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/finance"
)

type financeApi struct {
	svc      *finance.Service
	policy   auth.Policy
	validate *validator.Validate
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, policy auth.Policy, opts *Options) {
	api := financeApi{
		svc:      opts.FinanceSvc,
		policy:   policy,
		validate: opts.Validate,
	}

	admin := requireRule(policy, auth.AdminOnly)
	// corrections to the books take a second pair of eyes
	adminOrSuper := requireRule(policy, auth.AdminOrSuper)

	pg := g.Group("/payments", jwt)
	pg.GET("", api.queryPayments, admin)
	pg.POST("", api.createPayment, admin)
	pg.GET("/:id", api.retrievePayment, admin)
	pg.PUT("/:id", api.updatePayment, adminOrSuper)
	pg.DELETE("/:id", api.destroyPayment, adminOrSuper)

	eg := g.Group("/expenses", jwt)
	eg.GET("", api.queryExpenses, admin)
	eg.POST("", api.createExpense, admin)
	eg.GET("/:id", api.retrieveExpense, admin)
	eg.PUT("/:id", api.updateExpense, adminOrSuper)
	eg.DELETE("/:id", api.destroyExpense, adminOrSuper)
}

// Payments

func (api *financeApi) queryPayments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	payments, err := api.svc.QueryPaymentsBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *financeApi) createPayment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data finance.NewPayment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	pmt, err := api.svc.CreatePayment(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating payment")
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *financeApi) retrievePayment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	pmt, err := api.svc.GetPaymentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, pmt); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *financeApi) updatePayment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	pmt, err := api.svc.GetPaymentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, pmt); err != nil {
		return err
	}

	var data finance.NewPayment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	pmt, err = api.svc.UpdatePayment(ctx.Request().Context(), pmt.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *financeApi) destroyPayment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	pmt, err := api.svc.GetPaymentByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, pmt); err != nil {
		return err
	}
	if err = api.svc.DeletePayment(ctx.Request().Context(), pmt.ID); err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Expenses

func (api *financeApi) queryExpenses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	expenses, err := api.svc.QueryExpensesBySchool(ctx.Request().Context(), claims.SchoolID)
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	return ctx.JSON(http.StatusOK, expenses)
}

func (api *financeApi) createExpense(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data finance.NewExpense
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	exp, err := api.svc.CreateExpense(ctx.Request().Context(), claims.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating expense")
	}
	return ctx.JSON(http.StatusCreated, exp)
}

func (api *financeApi) retrieveExpense(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exp, err := api.svc.GetExpenseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exp); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exp)
}

func (api *financeApi) updateExpense(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exp, err := api.svc.GetExpenseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exp); err != nil {
		return err
	}

	var data finance.NewExpense
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	data.Clean()
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	exp, err = api.svc.UpdateExpense(ctx.Request().Context(), exp.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exp)
}

func (api *financeApi) destroyExpense(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	exp, err := api.svc.GetExpenseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if err = api.policy.PermitTenant(claims, exp); err != nil {
		return err
	}
	if err = api.svc.DeleteExpense(ctx.Request().Context(), exp.ID); err != nil {
		return errors.Wrap(err, "deleting expense")
	}
	return ctx.NoContent(http.StatusNoContent)
}
