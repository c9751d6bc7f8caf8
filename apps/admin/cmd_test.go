package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/storage/inmem"
)

func setup(t *testing.T) (*commandLine, *inmem.DB, *bytes.Buffer) {
	t.Helper()
	db := inmem.NewDB()
	db.AddSubjects(subject.Subject{ID: "MAT101", Name: "Cálculo I", Year: 1, Credits: 4})

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	var out bytes.Buffer
	cli := &commandLine{
		students:   inmem.NewStudentRepository(db),
		teachers:   inmem.NewTeacherRepository(db),
		subjects:   inmem.NewSubjectRepository(db),
		validate:   validate,
		translator: translator,
		out:        &out,
	}
	return cli, db, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(context.Background(), args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_list(t *testing.T) {
	cli, db, out := setup(t)
	db.AddStudent(student.Student{Name: "Ana", Enrollment: "2024M001", CurrentYear: 2, Shift: "M"})
	db.AddStudent(student.Student{Name: "Bruno", Enrollment: "2023N007", CurrentYear: 3, Shift: "N"})
	db.AddTeacher(teacher.Teacher{Name: "Clara", Department: "Matemática", Email: "clara@uni.br"})

	runTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "students", args: []string{"students"}, wantOut: []string{"MATRÍCULA", "2024M001", "2023N007"}},
		{name: "students by shift", args: []string{"students", "-shift", "N"}, wantOut: []string{"Bruno"}},
		{name: "students bad year", args: []string{"students", "-year", "dois"}, wantErrStr: "Ano do Aluno deve ser um número inteiro"},
		{name: "students bad flag", args: []string{"students", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "teachers", args: []string{"teachers", "-department", "mat"}, wantOut: []string{"Clara", "clara@uni.br", "Nenhuma"}},
		{name: "subjects", args: []string{"subjects"}, wantOut: []string{"CRÉDITOS", "Cálculo I"}},
	})

	out.Reset()
	require.NoError(t, cli.run(context.Background(), []string{"admin", "students", "-shift", "N"}))
	assert.NotContains(t, out.String(), "Ana")
}

func Test_commandLine_delete(t *testing.T) {
	cli, db, out := setup(t)
	ana := db.AddStudent(student.Student{Name: "Ana", Enrollment: "2024M001", CurrentYear: 2, Shift: "M"})
	clara := db.AddTeacher(teacher.Teacher{Name: "Clara", Department: "Matemática", Email: "clara@uni.br"})

	var answer bool
	var prompts int
	confirmFunc = func(string) (bool, error) {
		prompts++
		return answer, nil
	}
	defer func() { confirmFunc = promptConfirm }()

	runTests(t, cli, out, []cliTest{
		{name: "no id", args: []string{"delete-student"}, wantErr: errHelp},
		{name: "declined", args: []string{"delete-student", "-id", ana.ID}},
	})
	assert.Equal(t, 1, prompts)
	assert.Zero(t, db.Calls(inmem.OpDeleteStudent))

	answer = true
	runTests(t, cli, out, []cliTest{
		{name: "confirmed", args: []string{"delete-student", "-id", ana.ID}, wantOut: []string{"Aluno excluído com sucesso!"}},
		{name: "teacher without prompt", args: []string{"delete-teacher", "-id", clara.ID, "-yes"}, wantOut: []string{"Professor excluído com sucesso!"}},
	})
	assert.Equal(t, 2, prompts)
	assert.Equal(t, 1, db.Calls(inmem.OpDeleteStudent))
	assert.Equal(t, 1, db.Calls(inmem.OpDeleteTeacher))

	confirmFunc = func(string) (bool, error) { return false, errNotTerminal }
	runTests(t, cli, out, []cliTest{
		{name: "not a terminal", args: []string{"delete-teacher", "-id", clara.ID}, wantErr: errNotTerminal},
	})
	assert.Equal(t, 1, db.Calls(inmem.OpDeleteTeacher))
}
