package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/storage/inmem"
)

// backend mimics the records API on top of the in-memory store and remembers the raw queries it saw.
type backend struct {
	db       *inmem.DB
	students student.Repository
	teachers teacher.Repository
	subjects subject.Repository

	mu      sync.Mutex
	queries []string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	db := inmem.NewDB()
	b := &backend{
		db:       db,
		students: inmem.NewStudentRepository(db),
		teachers: inmem.NewTeacherRepository(db),
		subjects: inmem.NewSubjectRepository(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b.mu.Lock()
			b.queries = append(b.queries, c.Request().URL.RawQuery)
			b.mu.Unlock()
			return next(c)
		}
	})

	e.GET("/students", func(c echo.Context) error {
		filter := student.Filter{CurrentYear: c.QueryParam("current_year"), Shift: c.QueryParam("shift")}
		students, err := b.students.QueryStudents(reqCtx(c), filter)
		return reply(c, http.StatusOK, students, err)
	})
	e.GET("/students/:id", func(c echo.Context) error {
		s, err := b.students.GetStudent(reqCtx(c), c.Param("id"))
		return reply(c, http.StatusOK, s, err)
	})
	e.POST("/students", func(c echo.Context) error {
		var ns student.NewStudent
		if err := c.Bind(&ns); err != nil {
			return c.String(http.StatusBadRequest, "Requisição inválida: "+err.Error())
		}
		s, err := b.students.CreateStudent(reqCtx(c), ns)
		return reply(c, http.StatusCreated, s, err)
	})
	e.PUT("/students/:id", func(c echo.Context) error {
		var us student.UpdateStudent
		if err := c.Bind(&us); err != nil {
			return c.String(http.StatusBadRequest, "Requisição inválida: "+err.Error())
		}
		us.ID = c.Param("id")
		s, err := b.students.UpdateStudent(reqCtx(c), us)
		return reply(c, http.StatusOK, s, err)
	})
	e.DELETE("/students/:id", func(c echo.Context) error {
		return reply(c, http.StatusNoContent, nil, b.students.DeleteStudent(reqCtx(c), c.Param("id")))
	})
	e.POST("/students/:id/subjects/:subjectID", func(c echo.Context) error {
		err := b.students.AssignStudentSubject(reqCtx(c), c.Param("id"), c.Param("subjectID"))
		if errors.Is(err, subject.ErrAlreadyAssigned) {
			// plain text, like the real backend's student handler
			return c.String(http.StatusBadRequest, "matéria já associada a este aluno")
		}
		return reply(c, http.StatusOK, nil, err)
	})
	e.DELETE("/students/:id/subjects/:subjectID", func(c echo.Context) error {
		err := b.students.UnassignStudentSubject(reqCtx(c), c.Param("id"), c.Param("subjectID"))
		return reply(c, http.StatusNoContent, nil, err)
	})

	e.GET("/teachers", func(c echo.Context) error {
		teachers, err := b.teachers.QueryTeachers(reqCtx(c), teacher.Filter{Department: c.QueryParam("department")})
		return reply(c, http.StatusOK, teachers, err)
	})
	e.GET("/teachers/:id", func(c echo.Context) error {
		t, err := b.teachers.GetTeacher(reqCtx(c), c.Param("id"))
		return reply(c, http.StatusOK, t, err)
	})
	e.POST("/teachers", func(c echo.Context) error {
		var nt teacher.NewTeacher
		if err := c.Bind(&nt); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requisição inválida: corpo JSON malformado."})
		}
		t, err := b.teachers.CreateTeacher(reqCtx(c), nt)
		return reply(c, http.StatusCreated, t, err)
	})
	e.PUT("/teachers/:id", func(c echo.Context) error {
		var ut teacher.UpdateTeacher
		if err := c.Bind(&ut); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Requisição inválida: corpo JSON malformado."})
		}
		ut.ID = c.Param("id")
		t, err := b.teachers.UpdateTeacher(reqCtx(c), ut)
		return reply(c, http.StatusOK, t, err)
	})
	e.DELETE("/teachers/:id", func(c echo.Context) error {
		return reply(c, http.StatusNoContent, nil, b.teachers.DeleteTeacher(reqCtx(c), c.Param("id")))
	})
	e.POST("/teachers/:id/subjects/:subjectID", func(c echo.Context) error {
		err := b.teachers.AssignTeacherSubject(reqCtx(c), c.Param("id"), c.Param("subjectID"))
		if errors.Is(err, subject.ErrAlreadyAssigned) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "matéria já associada a este professor"})
		}
		return reply(c, http.StatusOK, nil, err)
	})
	e.DELETE("/teachers/:id/subjects/:subjectID", func(c echo.Context) error {
		err := b.teachers.UnassignTeacherSubject(reqCtx(c), c.Param("id"), c.Param("subjectID"))
		return reply(c, http.StatusNoContent, nil, err)
	})

	e.GET("/subjects", func(c echo.Context) error {
		subjects, err := b.subjects.QuerySubjects(reqCtx(c))
		return reply(c, http.StatusOK, subjects, err)
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) lastQuery() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queries) == 0 {
		return ""
	}
	return b.queries[len(b.queries)-1]
}

func reqCtx(c echo.Context) context.Context { return c.Request().Context() }

func reply(c echo.Context, code int, data interface{}, err error) error {
	switch {
	case errors.Is(err, inmem.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Registro não encontrado."})
	case err != nil:
		return c.String(http.StatusInternalServerError, "erro interno: "+err.Error())
	case data == nil:
		return c.NoContent(code)
	default:
		return c.JSON(code, data)
	}
}
