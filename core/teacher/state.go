package teacher

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

type ListStatus int

const (
	ListLoading ListStatus = iota
	ListError
	ListNoMatch // empty after a filter
	ListNone    // empty, never filtered
	ListPopulated
)

type Editing struct {
	ID   string
	Form Form
}

func (e Editing) Active() bool { return e.ID != "" }

// Assignment lives inside the edit form: it is rebuilt every time edit mode is entered
// and thrown away on save or cancel.
type Assignment struct {
	Subjects          []subject.Subject
	SelectedSubjectID string
	Assigned          []subject.Subject // patched locally after assign/unassign
	Message           core.Message
}

type State struct {
	Teachers    []Teacher
	Filter      Filter
	HasFiltered bool
	Loading     bool
	ListError   string

	Form        Form
	FormMessage core.Message

	Editing     Editing
	EditMessage core.Message
	Assignment  Assignment

	Pending core.Confirmation

	listSeq   uint64
	assignSeq uint64
}

func (s State) Status() ListStatus {
	switch {
	case s.Loading:
		return ListLoading
	case s.ListError != "":
		return ListError
	case len(s.Teachers) == 0 && s.HasFiltered:
		return ListNoMatch
	case len(s.Teachers) == 0:
		return ListNone
	default:
		return ListPopulated
	}
}

func (s State) clone() State {
	s.Teachers = clone(s.Teachers)
	s.Assignment.Subjects = subject.Clone(s.Assignment.Subjects)
	s.Assignment.Assigned = subject.Clone(s.Assignment.Assigned)
	return s
}

type event interface {
	apply(s *State)
}

func reduce(s State, e event) State {
	next := s.clone()
	e.apply(&next)
	return next
}

type reset struct{}

func (reset) apply(s *State) { *s = State{} }

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
	s.Teachers = nil
}

type listLoaded struct {
	seq      uint64
	teachers []Teacher
}

func (e listLoaded) apply(s *State) {
	if e.seq != s.listSeq {
		return
	}
	s.Loading = false
	s.Teachers = clone(e.teachers)
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
	s.Teachers = nil
}

type filterApplied struct{}

func (filterApplied) apply(s *State) { s.HasFiltered = true }

// create / delete

type formSubmitted struct{ form Form }

func (e formSubmitted) apply(s *State) {
	s.Form = e.form
	s.FormMessage = ""
}

type formMessage struct{ msg core.Message }

func (e formMessage) apply(s *State) { s.FormMessage = e.msg }

type formReset struct{ msg core.Message }

func (e formReset) apply(s *State) {
	s.Form = Form{}
	s.FormMessage = e.msg
}

// edit

type editStarted struct {
	seq     uint64
	teacher Teacher
}

func (e editStarted) apply(s *State) {
	s.Editing = Editing{ID: e.teacher.ID, Form: FormOf(e.teacher)}
	s.EditMessage = ""
	s.Assignment = Assignment{}
	s.assignSeq = e.seq
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
	s.Assignment = Assignment{}
	s.assignSeq = 0
}

// deleted also leaves edit mode when the deleted teacher was being edited.
type deleted struct {
	id  string
	msg core.Message
}

func (e deleted) apply(s *State) {
	s.FormMessage = e.msg
	if s.Editing.ID == e.id {
		s.Editing = Editing{}
		s.Assignment = Assignment{}
		s.assignSeq = 0
	}
}

// confirmation

type confirmationRequested struct{ confirmation core.Confirmation }

func (e confirmationRequested) apply(s *State) { s.Pending = e.confirmation }

type confirmationAnswered struct{}

func (confirmationAnswered) apply(s *State) { s.Pending = core.Confirmation{} }

// nested assignment

type subjectsLoaded struct {
	seq      uint64
	subjects []subject.Subject
}

func (e subjectsLoaded) apply(s *State) {
	if e.seq != s.assignSeq {
		return
	}
	s.Assignment.Subjects = subject.Clone(e.subjects)
	s.Assignment.SelectedSubjectID = subject.FirstID(e.subjects)
}

type assignedLoaded struct {
	seq      uint64
	subjects []subject.Subject
}

func (e assignedLoaded) apply(s *State) {
	if e.seq != s.assignSeq {
		return
	}
	s.Assignment.Assigned = subject.Clone(e.subjects)
}

type assignMessage struct {
	seq uint64
	msg core.Message
}

func (e assignMessage) apply(s *State) {
	if e.seq != s.assignSeq {
		return
	}
	s.Assignment.Message = e.msg
}

type subjectSelected struct{ id string }

func (e subjectSelected) apply(s *State) { s.Assignment.SelectedSubjectID = e.id }

type subjectAssigned struct {
	teacherID string
	subject   subject.Subject
	msg       core.Message
}

func (e subjectAssigned) apply(s *State) {
	if s.Editing.ID != e.teacherID {
		return
	}
	s.Assignment.Message = e.msg
	if e.subject.ID == "" || subject.Contains(s.Assignment.Assigned, e.subject.ID) {
		return
	}
	s.Assignment.Assigned = append(s.Assignment.Assigned, e.subject)
}

type subjectUnassigned struct {
	teacherID string
	subjectID string
	msg       core.Message
}

func (e subjectUnassigned) apply(s *State) {
	if s.Editing.ID != e.teacherID {
		return
	}
	s.Assignment.Message = e.msg
	s.Assignment.Assigned = subject.Without(s.Assignment.Assigned, e.subjectID)
}
