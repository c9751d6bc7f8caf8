package echoweb

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const baseTemplate = "_base.gohtml"

// page is what every template receives.
type page struct {
	AppName string
	View    string
	CSRF    string
	Data    interface{}
}

// renderer keeps one parsed template set per page: the base layout plus the page itself.
type renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer(strict bool) (*renderer, error) {
	fps, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}

	r := &renderer{pages: make(map[string]*template.Template, len(fps))}
	for _, fp := range fps {
		fname := path.Base(fp)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, path.Ext(fname))
		tmpl, err := template.New(name).
			Funcs(template.FuncMap{"isError": func(m core.Message) bool { return m.IsError() }}).
			ParseFS(templateFS, path.Join("templates", baseTemplate), fp)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", fname)
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, ctx echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
