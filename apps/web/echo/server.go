package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/shell"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Students   student.Repository
		Teachers   teacher.Repository
		Subjects   subject.Repository
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessions *sessionStore
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) (Server, error) {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.sessions = newSessionStore([]byte(deps.Conf.SecretKey), deps.Conf.AppName, deps.Conf.Server.SessionTTL, s.newSession)
	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) newSession(id string) *Session {
	students := student.NewManager(student.Deps{
		Repo:       s.deps.Students,
		Subjects:   s.deps.Subjects,
		Validate:   s.deps.Validate,
		Translator: s.deps.Translator,
		Logger:     s.deps.Logger,
	})
	teachers := teacher.NewManager(teacher.Deps{
		Repo:       s.deps.Teachers,
		Subjects:   s.deps.Subjects,
		Validate:   s.deps.Validate,
		Translator: s.deps.Translator,
		Logger:     s.deps.Logger,
	})
	return &Session{
		ID:       id,
		Shell:    shell.New(students, teachers),
		Students: students,
		Teachers: teachers,
	}
}

func (s *server) setup() error {
	conf := s.deps.Conf

	rdr, err := newRenderer(conf.Debug || conf.TestMode)
	if err != nil {
		return err
	}
	s.app.Renderer = rdr
	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, conf.AppName)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	if conf.API.Proxy {
		if err = registerAPIProxy(s.app, conf.API.BaseURL); err != nil {
			return err
		}
	}

	skipAPI := func(ctx echo.Context) bool {
		return strings.HasPrefix(ctx.Request().URL.Path, apiPrefix+"/")
	}
	if conf.Server.CSRF {
		s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        skipAPI,
			TokenLookup:    "form:" + csrfField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
		}))
	}
	s.app.Use(skipping(skipAPI, s.sessions.middleware))

	s.registerShellRoutes()
	s.registerStudentRoutes()
	s.registerTeacherRoutes()
	return nil
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// skipping bypasses mw for the requests matched by skipper.
func skipping(skipper middleware.Skipper, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := mw(next)
		return func(ctx echo.Context) error {
			if skipper(ctx) {
				return next(ctx)
			}
			return h(ctx)
		}
	}
}

// api proxy

const apiPrefix = "/api"

// registerAPIProxy forwards /api/* to the records API with the prefix stripped,
// so browser tooling can reach the API through the console's origin.
func registerAPIProxy(app *echo.Echo, baseURL string) error {
	target, err := url.Parse(baseURL)
	if err != nil {
		return errors.Wrapf(err, "parsing api base url %q", baseURL)
	}
	api := app.Group(apiPrefix)
	api.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{URL: target}}),
		Rewrite:  map[string]string{apiPrefix + "/*": "/$1"},
	}))
	return nil
}
