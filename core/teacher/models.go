package teacher

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

// Repository is the records API seen from the teacher screens.
type Repository interface {
	// QueryTeachers sends the department only when set; matching is done by the API.
	QueryTeachers(ctx context.Context, filter Filter) ([]Teacher, error)
	GetTeacher(ctx context.Context, id string) (Teacher, error)
	CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error)
	UpdateTeacher(ctx context.Context, ut UpdateTeacher) (Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	AssignTeacherSubject(ctx context.Context, teacherID, subjectID string) error
	UnassignTeacherSubject(ctx context.Context, teacherID, subjectID string) error
}

type Teacher struct {
	ID         string            `json:"id"`
	Registry   string            `json:"registry,omitempty"` // generated by the API
	Name       string            `json:"name"`
	Department string            `json:"department"`
	Email      string            `json:"email"`
	Subjects   []subject.Subject `json:"subjects,omitempty"`
}

func (t Teacher) Summary() string {
	return t.Name + " (" + t.Department + ") - " + t.Email
}

func (t Teacher) SubjectNames() string {
	if len(t.Subjects) == 0 {
		return "Nenhuma"
	}
	names := make([]string, len(t.Subjects))
	for i, subj := range t.Subjects {
		names[i] = subj.Name
	}
	return strings.Join(names, ", ")
}

type NewTeacher struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

type UpdateTeacher struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

// Form is the raw create/edit input. The e-mail is only required, its format is the API's business.
type Form struct {
	Name       string `form:"name" json:"name" label:"Nome" validate:"required"`
	Department string `form:"department" json:"department" label:"Departamento" validate:"required"`
	Email      string `form:"email" json:"email" label:"Email" validate:"required"`
}

func FormOf(t Teacher) Form {
	return Form{Name: t.Name, Department: t.Department, Email: t.Email}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Department = core.CleanString(f.Department)
	f.Email = core.CleanString(f.Email)
	return validate.Struct(f)
}

func (f Form) NewTeacher() NewTeacher {
	return NewTeacher{Name: f.Name, Department: f.Department, Email: f.Email}
}

func (f Form) UpdateTeacher(id string) UpdateTeacher {
	return UpdateTeacher{ID: id, Name: f.Name, Department: f.Department, Email: f.Email}
}

type Filter struct {
	Department string `form:"department" query:"department" json:"department"`
}

func (f *Filter) Clean() {
	f.Department = core.CleanString(f.Department)
}

func Find(teachers []Teacher, id string) (Teacher, bool) {
	for _, t := range teachers {
		if t.ID == id {
			return t, true
		}
	}
	return Teacher{}, false
}

func clone(teachers []Teacher) []Teacher {
	if teachers == nil {
		return nil
	}
	out := make([]Teacher, len(teachers))
	for i, t := range teachers {
		t.Subjects = subject.Clone(t.Subjects)
		out[i] = t
	}
	return out
}
