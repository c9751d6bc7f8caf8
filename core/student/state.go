package student

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

// ListStatus is what the list area shows, chosen in declaration order of precedence.
type ListStatus int

const (
	ListPrompt ListStatus = iota // no filter ever applied
	ListLoading
	ListError
	ListEmpty
	ListPopulated
)

// Editing is the edit buffer of the single student in edit mode; ID is empty when nobody is edited.
type Editing struct {
	ID   string
	Form Form
}

func (e Editing) Active() bool { return e.ID != "" }

// Assignment is the page-level subject assignment section.
type Assignment struct {
	Students          []Student
	Subjects          []subject.Subject
	SelectedStudentID string
	SelectedSubjectID string
	// Assigned is the selected student's subjects. It is patched locally after assign/unassign
	// with the objects already held here, not re-fetched; the next selection re-fetches it.
	Assigned []subject.Subject
	Message  core.Message
}

func (a Assignment) SelectedStudent() (Student, bool) {
	return Find(a.Students, a.SelectedStudentID)
}

// State is an immutable snapshot of the student screen. It only changes through reduce.
type State struct {
	Students    []Student
	Filter      Filter
	HasFiltered bool
	Loading     bool
	ListError   string

	Form        Form
	FormMessage core.Message

	Editing     Editing
	EditMessage core.Message

	Assignment Assignment
	Pending    core.Confirmation

	// request tokens: responses carrying an older token are dropped
	listSeq       uint64
	assignListSeq uint64
	assignedSeq   uint64
}

func (s State) Status() ListStatus {
	switch {
	case !s.HasFiltered:
		return ListPrompt
	case s.Loading:
		return ListLoading
	case s.ListError != "":
		return ListError
	case len(s.Students) == 0:
		return ListEmpty
	default:
		return ListPopulated
	}
}

func (s State) clone() State {
	s.Students = clone(s.Students)
	s.Assignment.Students = clone(s.Assignment.Students)
	s.Assignment.Subjects = subject.Clone(s.Assignment.Subjects)
	s.Assignment.Assigned = subject.Clone(s.Assignment.Assigned)
	return s
}

type event interface {
	apply(s *State)
}

// reduce returns the state following e; s itself is never modified.
func reduce(s State, e event) State {
	next := s.clone()
	e.apply(&next)
	return next
}

// list

type listRequested struct {
	seq    uint64
	filter Filter
}

func (e listRequested) apply(s *State) {
	s.listSeq = e.seq
	s.Filter = e.filter
	s.Loading = true
	s.ListError = ""
	s.Students = nil
}

type listLoaded struct {
	seq      uint64
	students []Student
}

func (e listLoaded) apply(s *State) {
	if e.seq != s.listSeq {
		return
	}
	s.Loading = false
	s.Students = clone(e.students)
	if s.Students == nil {
		s.Students = []Student{}
	}
}

type listFailed struct {
	seq uint64
	msg string
}

func (e listFailed) apply(s *State) {
	if e.seq != s.listSeq {
		return
	}
	s.Loading = false
	s.ListError = e.msg
	s.Students = nil
}

type filterApplied struct{ filter Filter }

func (e filterApplied) apply(s *State) {
	s.HasFiltered = true
	s.Filter = e.filter
}

// create / delete messages

type formSubmitted struct{ form Form }

func (e formSubmitted) apply(s *State) {
	s.Form = e.form
	s.FormMessage = ""
}

type formMessage struct{ msg core.Message }

func (e formMessage) apply(s *State) { s.FormMessage = e.msg }

// deleted also drops the edit buffer of the deleted student.
type deleted struct {
	id  string
	msg core.Message
}

func (e deleted) apply(s *State) {
	s.FormMessage = e.msg
	if s.Editing.ID == e.id {
		s.Editing = Editing{}
	}
}

type formReset struct{ msg core.Message }

func (e formReset) apply(s *State) {
	s.Form = Form{}
	s.FormMessage = e.msg
}

// edit

type editStarted struct{ student Student }

func (e editStarted) apply(s *State) {
	s.Editing = Editing{ID: e.student.ID, Form: FormOf(e.student)}
	s.EditMessage = ""
}

type editSubmitted struct{ form Form }

func (e editSubmitted) apply(s *State) {
	s.Editing.Form = e.form
	s.EditMessage = ""
}

type editMessage struct{ msg core.Message }

func (e editMessage) apply(s *State) { s.EditMessage = e.msg }

type editFinished struct{ msg core.Message }

func (e editFinished) apply(s *State) {
	s.Editing = Editing{}
	s.EditMessage = e.msg
}

// confirmation

type confirmationRequested struct{ confirmation core.Confirmation }

func (e confirmationRequested) apply(s *State) { s.Pending = e.confirmation }

type confirmationAnswered struct{}

func (confirmationAnswered) apply(s *State) { s.Pending = core.Confirmation{} }

// assignment

type assignStudentsLoaded struct {
	seq      uint64
	students []Student
}

// A load issued before the latest selection refreshes the dropdown but keeps that selection.
func (e assignStudentsLoaded) apply(s *State) {
	if e.seq < s.assignListSeq {
		return
	}
	s.Assignment.Students = clone(e.students)
	s.assignListSeq = e.seq
	if e.seq < s.assignedSeq {
		return
	}
	s.assignedSeq = e.seq
	if len(e.students) > 0 {
		s.Assignment.SelectedStudentID = e.students[0].ID
	} else {
		s.Assignment.SelectedStudentID = ""
		s.Assignment.Assigned = nil
	}
}

type assignSubjectsLoaded struct{ subjects []subject.Subject }

func (e assignSubjectsLoaded) apply(s *State) {
	s.Assignment.Subjects = subject.Clone(e.subjects)
	s.Assignment.SelectedSubjectID = subject.FirstID(e.subjects)
}

type assignMessage struct{ msg core.Message }

func (e assignMessage) apply(s *State) { s.Assignment.Message = e.msg }

type studentSelected struct {
	seq uint64
	id  string
}

func (e studentSelected) apply(s *State) {
	s.assignedSeq = e.seq
	s.Assignment.SelectedStudentID = e.id
	s.Assignment.Message = ""
	if e.id == "" {
		s.Assignment.Assigned = nil
	}
}

type subjectSelected struct{ id string }

func (e subjectSelected) apply(s *State) {
	s.Assignment.SelectedSubjectID = e.id
	s.Assignment.Message = ""
}

type assignedLoaded struct {
	seq      uint64
	subjects []subject.Subject
}

func (e assignedLoaded) apply(s *State) {
	if e.seq != s.assignedSeq {
		return
	}
	s.Assignment.Assigned = subject.Clone(e.subjects)
}

type assignedFailed struct{ seq uint64 }

func (e assignedFailed) apply(s *State) {
	if e.seq != s.assignedSeq {
		return
	}
	s.Assignment.Assigned = nil
}

type subjectAssigned struct {
	studentID string
	subject   subject.Subject
	msg       core.Message
}

func (e subjectAssigned) apply(s *State) {
	s.Assignment.Message = e.msg
	if e.subject.ID == "" || s.Assignment.SelectedStudentID != e.studentID {
		return
	}
	if subject.Contains(s.Assignment.Assigned, e.subject.ID) {
		return
	}
	s.Assignment.Assigned = append(s.Assignment.Assigned, e.subject)
}

type subjectUnassigned struct {
	studentID string
	subjectID string
	msg       core.Message
}

func (e subjectUnassigned) apply(s *State) {
	s.Assignment.Message = e.msg
	if s.Assignment.SelectedStudentID != e.studentID {
		return
	}
	s.Assignment.Assigned = subject.Without(s.Assignment.Assigned, e.subjectID)
}
