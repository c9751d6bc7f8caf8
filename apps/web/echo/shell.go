package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/academia/core/shell"
)

const csrfField = "_csrf"

func (s *server) registerShellRoutes() {
	s.app.GET("/", s.home)
	s.app.GET("/view/:view", s.switchView)
}

// home shows whichever screen the session is on.
func (s *server) home(ctx echo.Context) error {
	sess := getSession(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/"+string(sess.Shell.Current()))
}

// switchView is the navigation bar: the chosen screen is reloaded even when already visible.
func (s *server) switchView(ctx echo.Context) error {
	sess := getSession(ctx)
	v := shell.View(ctx.Param("view"))
	if !sess.Shell.Switch(ctx.Request().Context(), v) {
		return echo.ErrNotFound
	}
	return ctx.Redirect(http.StatusSeeOther, "/"+string(v))
}

// show brings v to front before one of its pages is rendered.
func (s *server) show(ctx echo.Context, v shell.View) *Session {
	sess := getSession(ctx)
	sess.Shell.Show(ctx.Request().Context(), v)
	return sess
}

func (s *server) render(ctx echo.Context, name string, data interface{}) error {
	sess := getSession(ctx)
	csrf, _ := ctx.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return ctx.Render(http.StatusOK, name, page{
		AppName: s.deps.Conf.AppName,
		View:    string(sess.Shell.Current()),
		CSRF:    csrf,
		Data:    data,
	})
}

func redirectTo(ctx echo.Context, v shell.View) error {
	return ctx.Redirect(http.StatusSeeOther, "/"+string(v))
}
