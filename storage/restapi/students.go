package restapi

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	*Client
}

func NewStudentRepository(c *Client) student.Repository {
	return &studentRepository{c}
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	params := map[string]string{
		"current_year": filter.CurrentYear,
		"shift":        filter.Shift,
	}
	students := make([]student.Student, 0)
	if err := repo.do(ctx, rest.Get, repo.path("students"), params, nil, &students); err != nil {
		return nil, err
	}
	if students == nil { // JSON null
		students = []student.Student{}
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var s student.Student
	err := repo.do(ctx, rest.Get, repo.path("students", id), nil, nil, &s)
	return s, err
}

func (repo *studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var s student.Student
	err := repo.do(ctx, rest.Post, repo.path("students"), nil, ns, &s)
	return s, err
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, us student.UpdateStudent) (student.Student, error) {
	var s student.Student
	err := repo.do(ctx, rest.Put, repo.path("students", us.ID), nil, us, &s)
	return s, err
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	return repo.do(ctx, rest.Delete, repo.path("students", id), nil, nil, nil)
}

func (repo *studentRepository) AssignStudentSubject(ctx context.Context, studentID, subjectID string) error {
	err := repo.do(ctx, rest.Post, repo.path("students", studentID, "subjects", subjectID), nil, nil, nil)
	return assignError(err)
}

func (repo *studentRepository) UnassignStudentSubject(ctx context.Context, studentID, subjectID string) error {
	return repo.do(ctx, rest.Delete, repo.path("students", studentID, "subjects", subjectID), nil, nil, nil)
}
