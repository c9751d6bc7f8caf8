package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/shell"
	"github.com/trezcool/academia/core/teacher"
	exportsvc "github.com/trezcool/academia/services/export"
)

var teacherStatuses = map[teacher.ListStatus]string{
	teacher.ListLoading:   "loading",
	teacher.ListError:     "error",
	teacher.ListNoMatch:   "nomatch",
	teacher.ListNone:      "none",
	teacher.ListPopulated: "populated",
}

type teachersView struct {
	teacher.State
	Status string
}

func (s *server) registerTeacherRoutes() {
	g := s.app.Group("/teachers")
	g.GET("", s.showTeachers)
	g.GET("/export.xlsx", s.exportTeachers)
	g.GET("/details", s.teacherDetails)
	g.POST("", s.createTeacher)
	g.POST("/filter", s.filterTeachers)
	g.POST("/confirm", s.confirmTeachers)
	g.POST("/edit/save", s.saveTeacher)
	g.POST("/edit/cancel", s.cancelTeacherEdit)
	g.POST("/edit/select-subject", s.selectTeacherSubject)
	g.POST("/edit/assign", s.assignTeacherSubject)
	g.POST("/edit/remove-subject", s.unassignTeacherSubject)
	g.POST("/edit", s.editTeacher)
	g.POST("/delete", s.deleteTeacher)
}

func (s *server) showTeachers(ctx echo.Context) error {
	state := s.show(ctx, shell.ViewTeachers).Teachers.State()
	return s.render(ctx, "teachers", teachersView{State: state, Status: teacherStatuses[state.Status()]})
}

func (s *server) teacherDetails(ctx echo.Context) error {
	state := s.show(ctx, shell.ViewTeachers).Teachers.State()
	t, ok := teacher.Find(state.Teachers, ctx.QueryParam("id"))
	if !ok {
		return errHttpNotFound
	}
	return s.render(ctx, "teacher_detail", t)
}

func (s *server) exportTeachers(ctx echo.Context) error {
	state := s.show(ctx, shell.ViewTeachers).Teachers.State()
	buf, err := exportsvc.Teachers(state.Teachers)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="professores.xlsx"`)
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

func (s *server) createTeacher(ctx echo.Context) error {
	var form teacher.Form
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	getSession(ctx).Teachers.Create(ctx.Request().Context(), form)
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) filterTeachers(ctx echo.Context) error {
	var filter teacher.Filter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	getSession(ctx).Teachers.ApplyFilter(ctx.Request().Context(), filter)
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) confirmTeachers(ctx echo.Context) error {
	getSession(ctx).Teachers.Confirm(ctx.Request().Context(), ctx.FormValue("answer") == "yes")
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) editTeacher(ctx echo.Context) error {
	getSession(ctx).Teachers.BeginEdit(ctx.Request().Context(), ctx.FormValue("id"))
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) saveTeacher(ctx echo.Context) error {
	var form teacher.Form
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	getSession(ctx).Teachers.SaveEdit(ctx.Request().Context(), form)
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) cancelTeacherEdit(ctx echo.Context) error {
	getSession(ctx).Teachers.CancelEdit()
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) deleteTeacher(ctx echo.Context) error {
	getSession(ctx).Teachers.RequestDelete(ctx.FormValue("id"))
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) selectTeacherSubject(ctx echo.Context) error {
	getSession(ctx).Teachers.SelectSubject(ctx.FormValue("subject_id"))
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) assignTeacherSubject(ctx echo.Context) error {
	getSession(ctx).Teachers.Assign(ctx.Request().Context())
	return redirectTo(ctx, shell.ViewTeachers)
}

func (s *server) unassignTeacherSubject(ctx echo.Context) error {
	getSession(ctx).Teachers.RequestUnassign(ctx.FormValue("subject_id"))
	return redirectTo(ctx, shell.ViewTeachers)
}
