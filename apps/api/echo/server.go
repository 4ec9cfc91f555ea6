package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/darasadev/darasa/core"
	"github.com/darasadev/darasa/core/academics"
	"github.com/darasadev/darasa/core/activity"
	"github.com/darasadev/darasa/core/auth"
	"github.com/darasadev/darasa/core/finance"
	"github.com/darasadev/darasa/core/roster"
	"github.com/darasadev/darasa/core/school"
	"github.com/darasadev/darasa/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		AuthSvc      *auth.Service
		UserSvc      *user.Service
		SchoolSvc    *school.Service
		RosterSvc    *roster.Service
		AcademicsSvc *academics.Service
		FinanceSvc   *finance.Service
		ActivitySvc  *activity.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/api/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	policy := auth.NewPolicy(conf)

	registerAuthAPI(v1, jwt, policy, s.opts)
	registerUserAPI(v1, jwt, policy, s.opts)
	registerSchoolAPI(v1, jwt, policy, s.opts)
	registerRosterAPI(v1, jwt, policy, s.opts)
	registerAcademicsAPI(v1, jwt, policy, s.opts)
	registerFinanceAPI(v1, jwt, policy, s.opts)
	registerActivityAPI(v1, jwt, policy, s.opts)
}

// signalShutdown is called by the error handler when an integrity error
// requires the process to restart.
func (s *server) signalShutdown() {
	close(s.shutdown)
}

func (s *server) Start() error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.app.Start(s.opts.Address)
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case <-s.shutdown:
		return errors.New("integrity issue: shutting down")
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
