package inmem

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/teacher"
)

var registryCount int

type teacherRepository struct {
	db *DB
}

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

// QueryTeachers matches the department case-insensitively as a substring.
func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter teacher.Filter) ([]teacher.Teacher, error) {
	if err := repo.db.enter(ctx, OpQueryTeachers); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	dept := strings.ToLower(filter.Department)
	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers.ids))
	for _, t := range repo.db.teachers.all() {
		if dept != "" && !strings.Contains(strings.ToLower(t.Department), dept) {
			continue
		}
		t.Subjects = repo.db.resolve(repo.db.teacherSubj[t.ID])
		teachers = append(teachers, t)
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	if err := repo.db.enter(ctx, OpGetTeacher); err != nil {
		return teacher.Teacher{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	t, ok := repo.db.teachers.get(id)
	if !ok {
		return teacher.Teacher{}, errors.Wrapf(ErrNotFound, "teacher %s", id)
	}
	t.Subjects = repo.db.resolve(repo.db.teacherSubj[id])
	return t, nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, nt teacher.NewTeacher) (teacher.Teacher, error) {
	if err := repo.db.enter(ctx, OpCreateTeacher); err != nil {
		return teacher.Teacher{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	registryCount++
	t := teacher.Teacher{
		ID:         newID(),
		Registry:   fmt.Sprintf("PROF%03d", registryCount),
		Name:       nt.Name,
		Department: nt.Department,
		Email:      nt.Email,
	}
	repo.db.teachers.put(t.ID, t)
	return t, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, ut teacher.UpdateTeacher) (teacher.Teacher, error) {
	if err := repo.db.enter(ctx, OpUpdateTeacher); err != nil {
		return teacher.Teacher{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.teachers.get(ut.ID)
	if !ok {
		return teacher.Teacher{}, errors.Wrapf(ErrNotFound, "teacher %s", ut.ID)
	}
	t.Name = ut.Name
	t.Department = ut.Department
	t.Email = ut.Email
	repo.db.teachers.put(t.ID, t)
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if err := repo.db.enter(ctx, OpDeleteTeacher); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !repo.db.teachers.remove(id) {
		return errors.Wrapf(ErrNotFound, "teacher %s", id)
	}
	delete(repo.db.teacherSubj, id)
	return nil
}

func (repo *teacherRepository) AssignTeacherSubject(ctx context.Context, teacherID, subjectID string) error {
	if err := repo.db.enter(ctx, OpAssignTeacherSubject); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers.get(teacherID); !ok {
		return errors.Wrapf(ErrNotFound, "teacher %s", teacherID)
	}
	return repo.db.linkSubject(repo.db.teacherSubj, teacherID, subjectID)
}

func (repo *teacherRepository) UnassignTeacherSubject(ctx context.Context, teacherID, subjectID string) error {
	if err := repo.db.enter(ctx, OpUnassignTeacherSubject); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return unlink(repo.db.teacherSubj, teacherID, subjectID)
}
