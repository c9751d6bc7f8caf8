package restapi

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core/teacher"
)

type teacherRepository struct {
	*Client
}

func NewTeacherRepository(c *Client) teacher.Repository {
	return &teacherRepository{c}
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter teacher.Filter) ([]teacher.Teacher, error) {
	params := map[string]string{"department": filter.Department}
	teachers := make([]teacher.Teacher, 0)
	if err := repo.do(ctx, rest.Get, repo.path("teachers"), params, nil, &teachers); err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.do(ctx, rest.Get, repo.path("teachers", id), nil, nil, &t)
	return t, err
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, nt teacher.NewTeacher) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.do(ctx, rest.Post, repo.path("teachers"), nil, nt, &t)
	return t, err
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, ut teacher.UpdateTeacher) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.do(ctx, rest.Put, repo.path("teachers", ut.ID), nil, ut, &t)
	return t, err
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	return repo.do(ctx, rest.Delete, repo.path("teachers", id), nil, nil, nil)
}

func (repo *teacherRepository) AssignTeacherSubject(ctx context.Context, teacherID, subjectID string) error {
	err := repo.do(ctx, rest.Post, repo.path("teachers", teacherID, "subjects", subjectID), nil, nil, nil)
	return assignError(err)
}

func (repo *teacherRepository) UnassignTeacherSubject(ctx context.Context, teacherID, subjectID string) error {
	return repo.do(ctx, rest.Delete, repo.path("teachers", teacherID, "subjects", subjectID), nil, nil, nil)
}
