package inmem

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
)

func TestDB_failuresAndHooks(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	repo := NewStudentRepository(db)

	boom := errors.New("boom")
	db.Fail(OpQueryStudents, boom)
	_, err := repo.QueryStudents(ctx, student.Filter{})
	assert.Equal(t, boom, err)

	db.Fail(OpQueryStudents, nil)
	var hooked bool
	db.OnCall(OpQueryStudents, func(context.Context) { hooked = true })
	_, err = repo.QueryStudents(ctx, student.Filter{})
	require.NoError(t, err)
	assert.True(t, hooked)
	assert.Equal(t, 2, db.Calls(OpQueryStudents))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.QueryStudents(cctx, student.Filter{})
	assert.Equal(t, context.Canceled, err)

	db.ResetCalls()
	assert.Zero(t, db.Calls(OpQueryStudents))
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	math := subject.Subject{ID: "MAT101", Name: "Cálculo I"}
	db.AddSubjects(math)
	repo := NewStudentRepository(db)

	ana, err := repo.CreateStudent(ctx, student.NewStudent{Name: "Ana", Enrollment: "2024M001", CurrentYear: 2, Shift: "M"})
	require.NoError(t, err)
	db.AddStudent(student.Student{Name: "Bruno", Enrollment: "2023N007", CurrentYear: 3, Shift: "N"})

	got, err := repo.QueryStudents(ctx, student.Filter{CurrentYear: "2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ana.ID, got[0].ID)

	require.NoError(t, repo.AssignStudentSubject(ctx, ana.ID, math.ID))
	assert.True(t, errors.Is(repo.AssignStudentSubject(ctx, ana.ID, math.ID), subject.ErrAlreadyAssigned))
	full, err := repo.GetStudent(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []subject.Subject{math}, full.Subjects)

	require.NoError(t, repo.UnassignStudentSubject(ctx, ana.ID, math.ID))
	require.NoError(t, repo.DeleteStudent(ctx, ana.ID))
	_, err = repo.GetStudent(ctx, ana.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTeacherRepository_QueryTeachers(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	repo := NewTeacherRepository(db)

	clara, err := repo.CreateTeacher(ctx, teacher.NewTeacher{Name: "Clara", Department: "Matemática Aplicada", Email: "clara@uni.br"})
	require.NoError(t, err)
	assert.Regexp(t, `^PROF\d{3}$`, clara.Registry)
	db.AddTeacher(teacher.Teacher{Name: "Davi", Department: "Computação", Email: "davi@uni.br"})

	got, err := repo.QueryTeachers(ctx, teacher.Filter{Department: "MATEMÁTICA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Clara", got[0].Name)

	got, err = repo.QueryTeachers(ctx, teacher.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
