// Package inmem is an in-memory records backend. It implements the student, teacher and subject
// repositories, counts every call and lets callers inject failures or block a call.
package inmem

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/teacher"
)

var ErrNotFound = errors.New("not found")

// Operation names, as counted by DB.Calls.
const (
	OpQueryStudents          = "QueryStudents"
	OpGetStudent             = "GetStudent"
	OpCreateStudent          = "CreateStudent"
	OpUpdateStudent          = "UpdateStudent"
	OpDeleteStudent          = "DeleteStudent"
	OpAssignStudentSubject   = "AssignStudentSubject"
	OpUnassignStudentSubject = "UnassignStudentSubject"
	OpQueryTeachers          = "QueryTeachers"
	OpGetTeacher             = "GetTeacher"
	OpCreateTeacher          = "CreateTeacher"
	OpUpdateTeacher          = "UpdateTeacher"
	OpDeleteTeacher          = "DeleteTeacher"
	OpAssignTeacherSubject   = "AssignTeacherSubject"
	OpUnassignTeacherSubject = "UnassignTeacherSubject"
	OpQuerySubjects          = "QuerySubjects"
)

// Hook runs before the operation it is registered for, outside of the DB lock.
type Hook func(ctx context.Context)

type DB struct {
	mutex sync.RWMutex

	students    *table[student.Student]
	teachers    *table[teacher.Teacher]
	subjects    []subject.Subject
	studentSubj map[string][]string
	teacherSubj map[string][]string

	calls    map[string]int
	failures map[string]error
	hooks    map[string]Hook
}

func NewDB() *DB {
	return &DB{
		students:    newTable[student.Student](),
		teachers:    newTable[teacher.Teacher](),
		studentSubj: make(map[string][]string),
		teacherSubj: make(map[string][]string),
		calls:       make(map[string]int),
		failures:    make(map[string]error),
		hooks:       make(map[string]Hook),
	}
}

// table keeps rows in insertion order.
type table[T any] struct {
	ids  []string
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.rows[id])
	}
	return out
}

func newID() string { return uuid.New().String() }

// Fail makes every later call of op return err; a nil err clears it.
func (db *DB) Fail(op string, err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if err == nil {
		delete(db.failures, op)
		return
	}
	db.failures[op] = err
}

// OnCall registers fn to run at the start of every call of op; a nil fn clears it.
func (db *DB) OnCall(op string, fn Hook) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if fn == nil {
		delete(db.hooks, op)
		return
	}
	db.hooks[op] = fn
}

// Calls reports how many times op was called.
func (db *DB) Calls(op string) int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.calls[op]
}

func (db *DB) ResetCalls() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.calls = make(map[string]int)
}

// enter records the call, runs its hook and returns the injected failure, if any.
func (db *DB) enter(ctx context.Context, op string) error {
	db.mutex.Lock()
	db.calls[op]++
	hook := db.hooks[op]
	err := db.failures[op]
	db.mutex.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

// seeding

func (db *DB) AddSubjects(subjects ...subject.Subject) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.subjects = append(db.subjects, subjects...)
}

func (db *DB) AddStudent(s student.Student) student.Student {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if s.ID == "" {
		s.ID = newID()
	}
	db.studentSubj[s.ID] = subjectIDs(s.Subjects)
	s.Subjects = nil
	db.students.put(s.ID, s)
	return s
}

func (db *DB) AddTeacher(t teacher.Teacher) teacher.Teacher {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	db.teacherSubj[t.ID] = subjectIDs(t.Subjects)
	t.Subjects = nil
	db.teachers.put(t.ID, t)
	return t
}

func subjectIDs(subjects []subject.Subject) []string {
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

func (db *DB) resolve(ids []string) []subject.Subject {
	out := make([]subject.Subject, 0, len(ids))
	for _, id := range ids {
		if s, ok := subject.Find(db.subjects, id); ok {
			out = append(out, s)
		}
	}
	return out
}

func link(links map[string][]string, ownerID, subjectID string) error {
	for _, id := range links[ownerID] {
		if id == subjectID {
			return subject.ErrAlreadyAssigned
		}
	}
	links[ownerID] = append(links[ownerID], subjectID)
	return nil
}

func unlink(links map[string][]string, ownerID, subjectID string) error {
	ids := links[ownerID]
	for i, id := range ids {
		if id == subjectID {
			links[ownerID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
