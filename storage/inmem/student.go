package inmem

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	if err := repo.db.enter(ctx, OpQueryStudents); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	year, _ := strconv.Atoi(filter.CurrentYear)
	students := make([]student.Student, 0, len(repo.db.students.ids))
	for _, s := range repo.db.students.all() {
		if filter.CurrentYear != "" && s.CurrentYear != year {
			continue
		}
		if filter.Shift != "" && s.Shift != filter.Shift {
			continue
		}
		students = append(students, s)
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if err := repo.db.enter(ctx, OpGetStudent); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	s, ok := repo.db.students.get(id)
	if !ok {
		return student.Student{}, errors.Wrapf(ErrNotFound, "student %s", id)
	}
	s.Subjects = repo.db.resolve(repo.db.studentSubj[id])
	return s, nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	if err := repo.db.enter(ctx, OpCreateStudent); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s := student.Student{
		ID:          newID(),
		Name:        ns.Name,
		Enrollment:  ns.Enrollment,
		CurrentYear: ns.CurrentYear,
		Shift:       ns.Shift,
	}
	repo.db.students.put(s.ID, s)
	return s, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, us student.UpdateStudent) (student.Student, error) {
	if err := repo.db.enter(ctx, OpUpdateStudent); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.students.get(us.ID)
	if !ok {
		return student.Student{}, errors.Wrapf(ErrNotFound, "student %s", us.ID)
	}
	s.Name = us.Name
	s.Enrollment = us.Enrollment
	s.CurrentYear = us.CurrentYear
	s.Shift = us.Shift
	repo.db.students.put(s.ID, s)
	return s, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if err := repo.db.enter(ctx, OpDeleteStudent); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !repo.db.students.remove(id) {
		return errors.Wrapf(ErrNotFound, "student %s", id)
	}
	delete(repo.db.studentSubj, id)
	return nil
}

func (repo *studentRepository) AssignStudentSubject(ctx context.Context, studentID, subjectID string) error {
	if err := repo.db.enter(ctx, OpAssignStudentSubject); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students.get(studentID); !ok {
		return errors.Wrapf(ErrNotFound, "student %s", studentID)
	}
	return repo.db.linkSubject(repo.db.studentSubj, studentID, subjectID)
}

func (repo *studentRepository) UnassignStudentSubject(ctx context.Context, studentID, subjectID string) error {
	if err := repo.db.enter(ctx, OpUnassignStudentSubject); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return unlink(repo.db.studentSubj, studentID, subjectID)
}
