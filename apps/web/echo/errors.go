package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "Registro não encontrado.")

var statusTexts = map[int]string{
	http.StatusBadRequest:          "Requisição inválida.",
	http.StatusForbidden:           "Acesso negado.",
	http.StatusNotFound:            "Página não encontrada.",
	http.StatusMethodNotAllowed:    "Método não permitido.",
	http.StatusInternalServerError: "Erro interno do servidor.",
}

type errorView struct {
	Code    int
	Message string
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering errors as console pages.
func newAppHTTPErrorHandler(logger core.Logger, appName string) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if origErr == errHttpNotFound {
				message = fmt.Sprint(origErr.Message)
			} else {
				message = statusTexts[code]
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(code)
			message = statusTexts[code]
			logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{
				"method": ctx.Request().Method,
				"path":   ctx.Request().URL.Path,
			})
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if message == "" {
			message = http.StatusText(code)
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				var view string
				if sess := getSession(ctx); sess != nil {
					view = string(sess.Shell.Current())
				}
				err = ctx.Render(code, "error", page{
					AppName: appName,
					View:    view,
					Data:    errorView{Code: code, Message: message},
				})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
