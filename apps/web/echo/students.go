package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/shell"
	"github.com/trezcool/academia/core/student"
	exportsvc "github.com/trezcool/academia/services/export"
)

var studentStatuses = map[student.ListStatus]string{
	student.ListPrompt:    "prompt",
	student.ListLoading:   "loading",
	student.ListError:     "error",
	student.ListEmpty:     "empty",
	student.ListPopulated: "populated",
}

type studentsView struct {
	student.State
	Status              string
	SelectedStudentName string
}

func newStudentsView(s student.State) studentsView {
	v := studentsView{State: s, Status: studentStatuses[s.Status()]}
	if st, ok := s.Assignment.SelectedStudent(); ok {
		v.SelectedStudentName = st.Name
	}
	return v
}

func (s *server) registerStudentRoutes() {
	g := s.app.Group("/students")
	g.GET("", s.showStudents)
	g.GET("/export.xlsx", s.exportStudents)
	g.GET("/details", s.studentDetails)
	g.POST("", s.createStudent)
	g.POST("/filter", s.filterStudents)
	g.POST("/confirm", s.confirmStudents)
	g.POST("/edit/save", s.saveStudent)
	g.POST("/edit/cancel", s.cancelStudentEdit)
	g.POST("/edit", s.editStudent)
	g.POST("/delete", s.deleteStudent)
	g.POST("/assignment/select-student", s.selectAssignmentStudent)
	g.POST("/assignment/select-subject", s.selectStudentSubject)
	g.POST("/assignment/assign", s.assignStudentSubject)
	g.POST("/assignment/remove", s.unassignStudentSubject)
}

func (s *server) showStudents(ctx echo.Context) error {
	sess := s.show(ctx, shell.ViewStudents)
	return s.render(ctx, "students", newStudentsView(sess.Students.State()))
}

// studentDetails shows a student already loaded on the screen.
func (s *server) studentDetails(ctx echo.Context) error {
	state := s.show(ctx, shell.ViewStudents).Students.State()
	id := ctx.QueryParam("id")
	st, ok := student.Find(state.Students, id)
	if !ok {
		if st, ok = student.Find(state.Assignment.Students, id); !ok {
			return errHttpNotFound
		}
	}
	return s.render(ctx, "student_detail", st)
}

func (s *server) exportStudents(ctx echo.Context) error {
	state := s.show(ctx, shell.ViewStudents).Students.State()
	buf, err := exportsvc.Students(state.Students)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="alunos.xlsx"`)
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

func (s *server) createStudent(ctx echo.Context) error {
	var form student.Form
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	getSession(ctx).Students.Create(ctx.Request().Context(), form)
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) filterStudents(ctx echo.Context) error {
	var filter student.Filter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	getSession(ctx).Students.ApplyFilter(ctx.Request().Context(), filter)
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) confirmStudents(ctx echo.Context) error {
	getSession(ctx).Students.Confirm(ctx.Request().Context(), ctx.FormValue("answer") == "yes")
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) editStudent(ctx echo.Context) error {
	getSession(ctx).Students.BeginEdit(ctx.FormValue("id"))
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) saveStudent(ctx echo.Context) error {
	var form student.Form
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	getSession(ctx).Students.SaveEdit(ctx.Request().Context(), form)
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) cancelStudentEdit(ctx echo.Context) error {
	getSession(ctx).Students.CancelEdit()
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) deleteStudent(ctx echo.Context) error {
	getSession(ctx).Students.RequestDelete(ctx.FormValue("id"))
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) selectAssignmentStudent(ctx echo.Context) error {
	getSession(ctx).Students.SelectStudent(ctx.Request().Context(), ctx.FormValue("student_id"))
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) selectStudentSubject(ctx echo.Context) error {
	getSession(ctx).Students.SelectSubject(ctx.FormValue("subject_id"))
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) assignStudentSubject(ctx echo.Context) error {
	getSession(ctx).Students.Assign(ctx.Request().Context())
	return redirectTo(ctx, shell.ViewStudents)
}

func (s *server) unassignStudentSubject(ctx echo.Context) error {
	getSession(ctx).Students.RequestUnassign(ctx.FormValue("subject_id"))
	return redirectTo(ctx, shell.ViewStudents)
}
