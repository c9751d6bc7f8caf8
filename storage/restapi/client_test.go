package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/storage/inmem"
)

var algorithms = subject.Subject{ID: "BSI101", Name: "Algoritmos", Year: 1, Credits: 4}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	b, srv := newBackend(t)
	b.db.AddSubjects(algorithms)
	repo := NewStudentRepository(NewClient(srv.URL+"/", 0))

	created, err := repo.CreateStudent(ctx, student.NewStudent{Name: "Ana", Enrollment: "123", CurrentYear: 2, Shift: "M"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	t.Run("query omits empty params", func(t *testing.T) {
		students, err := repo.QueryStudents(ctx, student.Filter{})
		require.NoError(t, err)
		assert.Empty(t, b.lastQuery())
		require.Len(t, students, 1)
		assert.Equal(t, "123", students[0].Enrollment)
		assert.Equal(t, "Ana (123) - Ano: 2, Turno: M", students[0].Summary())

		students, err = repo.QueryStudents(ctx, student.Filter{Shift: "N"})
		require.NoError(t, err)
		assert.Equal(t, "shift=N", b.lastQuery())
		assert.NotNil(t, students)
		assert.Empty(t, students)

		_, err = repo.QueryStudents(ctx, student.Filter{CurrentYear: "2", Shift: "M"})
		require.NoError(t, err)
		assert.Equal(t, "current_year=2&shift=M", b.lastQuery())
	})

	t.Run("update and get", func(t *testing.T) {
		updated, err := repo.UpdateStudent(ctx, student.UpdateStudent{ID: created.ID, Name: "Ana Maria", Enrollment: "123", CurrentYear: 3, Shift: "T"})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.CurrentYear)

		got, err := repo.GetStudent(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", got.Name)
		assert.Empty(t, got.Subjects)
	})

	t.Run("assign twice", func(t *testing.T) {
		require.NoError(t, repo.AssignStudentSubject(ctx, created.ID, algorithms.ID))

		err := repo.AssignStudentSubject(ctx, created.ID, algorithms.ID)
		assert.True(t, errors.Is(err, subject.ErrAlreadyAssigned), "got %v", err)

		got, err := repo.GetStudent(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []subject.Subject{algorithms}, got.Subjects)

		require.NoError(t, repo.UnassignStudentSubject(ctx, created.ID, algorithms.ID))
	})

	t.Run("not found carries the message", func(t *testing.T) {
		_, err := repo.GetStudent(ctx, "nope")
		var apiErr *core.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Registro não encontrado.", core.UserMessage(err, "fallback"))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteStudent(ctx, created.ID))
		students, err := repo.QueryStudents(ctx, student.Filter{})
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("ids are escaped", func(t *testing.T) {
		err := repo.DeleteStudent(ctx, "a/b")
		var apiErr *core.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	b, srv := newBackend(t)
	b.db.AddSubjects(algorithms)
	repo := NewTeacherRepository(NewClient(srv.URL, time.Second))

	created, err := repo.CreateTeacher(ctx, teacher.NewTeacher{Name: "Clara", Department: "Computação", Email: "clara@uni.br"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Registry)

	teachers, err := repo.QueryTeachers(ctx, teacher.Filter{Department: "comp"})
	require.NoError(t, err)
	assert.Equal(t, "department=comp", b.lastQuery())
	require.Len(t, teachers, 1)

	_, err = repo.UpdateTeacher(ctx, teacher.UpdateTeacher{ID: created.ID, Name: "Clara", Department: "Matemática", Email: "clara@uni.br"})
	require.NoError(t, err)

	require.NoError(t, repo.AssignTeacherSubject(ctx, created.ID, algorithms.ID))
	err = repo.AssignTeacherSubject(ctx, created.ID, algorithms.ID)
	assert.True(t, errors.Is(err, subject.ErrAlreadyAssigned), "got %v", err)

	got, err := repo.GetTeacher(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Matemática", got.Department)
	assert.Equal(t, []subject.Subject{algorithms}, got.Subjects)

	require.NoError(t, repo.UnassignTeacherSubject(ctx, created.ID, algorithms.ID))
	require.NoError(t, repo.DeleteTeacher(ctx, created.ID))

	teachers, err = repo.QueryTeachers(ctx, teacher.Filter{})
	require.NoError(t, err)
	assert.Empty(t, b.lastQuery())
	assert.Empty(t, teachers)
}

func TestSubjectRepository(t *testing.T) {
	b, srv := newBackend(t)
	b.db.AddSubjects(algorithms)

	subjects, err := NewSubjectRepository(NewClient(srv.URL, 0)).QuerySubjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []subject.Subject{algorithms}, subjects)
}

func TestClient_errors(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text body has no message", func(t *testing.T) {
		b, srv := newBackend(t)
		b.db.Fail(inmem.OpCreateStudent, errors.New("duplicate key"))
		repo := NewStudentRepository(NewClient(srv.URL, 0))

		_, err := repo.CreateStudent(ctx, student.NewStudent{Name: "Ana"})
		var apiErr *core.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Empty(t, apiErr.Message)
		assert.Contains(t, apiErr.Body, "duplicate key")
		assert.Equal(t, "Erro ao criar aluno", core.UserMessage(err, "Erro ao criar aluno"))
	})

	t.Run("json message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message": "Turno inválido"}`))
		}))
		defer srv.Close()

		_, err := NewStudentRepository(NewClient(srv.URL, 0)).CreateStudent(ctx, student.NewStudent{})
		assert.Equal(t, "Turno inválido", core.UserMessage(err, "Erro ao criar aluno"))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewSubjectRepository(NewClient(url, 0)).QuerySubjects(ctx)
		var transErr *core.TransportError
		require.True(t, errors.As(err, &transErr))
		assert.Equal(t, "Não foi possível conectar à API", core.UserMessage(err, "Erro ao buscar matérias"))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewSubjectRepository(NewClient(srv.URL, 50*time.Millisecond)).QuerySubjects(ctx)
		var transErr *core.TransportError
		assert.True(t, errors.As(err, &transErr))
	})
}
