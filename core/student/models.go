package student

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

// Shifts
const (
	ShiftMorning   = "M"
	ShiftAfternoon = "T"
	ShiftNight     = "N"
)

// Repository is the records API seen from the student screens.
type Repository interface {
	// QueryStudents only sends the Filter fields that are set.
	QueryStudents(ctx context.Context, filter Filter) ([]Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
	UpdateStudent(ctx context.Context, us UpdateStudent) (Student, error)
	DeleteStudent(ctx context.Context, id string) error
	AssignStudentSubject(ctx context.Context, studentID, subjectID string) error
	UnassignStudentSubject(ctx context.Context, studentID, subjectID string) error
}

type Student struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Enrollment  string            `json:"enrollment"`
	CurrentYear int               `json:"current_year"`
	Shift       string            `json:"shift"`
	Subjects    []subject.Subject `json:"subjects,omitempty"` // only when fetched individually
}

// Summary is the one-line description used by lists.
func (s Student) Summary() string {
	return fmt.Sprintf("%s (%s) - Ano: %d, Turno: %s", s.Name, s.Enrollment, s.CurrentYear, s.Shift)
}

// SubjectNames lists the names of the student's subjects, "Nenhuma" when there is none.
func (s Student) SubjectNames() string {
	if len(s.Subjects) == 0 {
		return "Nenhuma"
	}
	names := make([]string, len(s.Subjects))
	for i, subj := range s.Subjects {
		names[i] = subj.Name
	}
	return strings.Join(names, ", ")
}

// NewStudent is the body of POST /students.
type NewStudent struct {
	Name        string `json:"name"`
	Enrollment  string `json:"enrollment"`
	CurrentYear int    `json:"current_year"`
	Shift       string `json:"shift"`
}

// UpdateStudent is the body of PUT /students/{id}.
type UpdateStudent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enrollment  string `json:"enrollment"`
	CurrentYear int    `json:"current_year"`
	Shift       string `json:"shift"`
}

// Form is the raw create/edit input as typed by the operator.
type Form struct {
	Name        string `form:"name" json:"name" label:"Nome" validate:"required"`
	Enrollment  string `form:"enrollment" json:"enrollment" label:"Matrícula" validate:"required"`
	CurrentYear string `form:"current_year" json:"current_year" label:"Ano Atual" validate:"required,number"`
	Shift       string `form:"shift" json:"shift" label:"Turno" validate:"required,shift"`
}

func FormOf(s Student) Form {
	return Form{
		Name:        s.Name,
		Enrollment:  s.Enrollment,
		CurrentYear: strconv.Itoa(s.CurrentYear),
		Shift:       s.Shift,
	}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.Enrollment = core.CleanString(f.Enrollment)
	f.CurrentYear = core.CleanString(f.CurrentYear)
	f.Shift = core.CleanString(f.Shift)
	return validate.Struct(f)
}

func (f Form) year() int {
	year, _ := strconv.Atoi(f.CurrentYear) // validated as numeric
	return year
}

func (f Form) NewStudent() NewStudent {
	return NewStudent{Name: f.Name, Enrollment: f.Enrollment, CurrentYear: f.year(), Shift: f.Shift}
}

func (f Form) UpdateStudent(id string) UpdateStudent {
	return UpdateStudent{ID: id, Name: f.Name, Enrollment: f.Enrollment, CurrentYear: f.year(), Shift: f.Shift}
}

// Filter narrows the student list; empty fields are not sent.
type Filter struct {
	CurrentYear string `form:"current_year" query:"current_year" json:"current_year" label:"Ano do Aluno" validate:"omitempty,number"`
	Shift       string `form:"shift" query:"shift" json:"shift" label:"Turno" validate:"omitempty,shift"`
}

func (f *Filter) Validate(validate *validator.Validate) error {
	f.CurrentYear = core.CleanString(f.CurrentYear)
	f.Shift = core.CleanString(f.Shift)
	return validate.Struct(f)
}

func (f Filter) IsEmpty() bool {
	return f.CurrentYear == "" && f.Shift == ""
}

// Find returns the student with the given ID from students.
func Find(students []Student, id string) (Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func clone(students []Student) []Student {
	if students == nil {
		return nil
	}
	out := make([]Student, len(students))
	for i, s := range students {
		s.Subjects = subject.Clone(s.Subjects)
		out[i] = s
	}
	return out
}
