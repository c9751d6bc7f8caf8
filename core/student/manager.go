package student

import (
	"context"
	"sync"
	"sync/atomic"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

var (
	msgRequired        = core.ErrorMessage("Todos os campos são obrigatórios!")
	msgSelectBoth      = core.ErrorMessage("Selecione um aluno e uma matéria.")
	msgAlreadyAssigned = core.ErrorMessage("Matéria já está atribuída a este aluno.")
	msgCreated         = core.Message("Sucesso: Aluno criado com sucesso!")
	msgUpdated         = core.Message("Sucesso: Aluno atualizado com sucesso!")
	msgDeleted         = core.Message("Sucesso: Aluno excluído com sucesso!")
	msgAssigned        = core.Message("Matéria atribuída com sucesso!")
	msgUnassigned      = core.Message("Matéria removida com sucesso!")

	promptDelete   = "Tem certeza que deseja excluir este aluno?"
	promptUnassign = "Tem certeza que deseja remover esta matéria?"
)

type Deps struct {
	Repo       Repository
	Subjects   subject.Repository
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger
}

// Manager owns the student screen's view-state for one operator session.
// Every operation catches its own failures and turns them into a message of its area;
// none of them returns an error.
type Manager struct {
	repo       Repository
	subjects   subject.Repository
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger

	seq   uint64 // atomic
	mu    sync.Mutex
	state State
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		repo:       deps.Repo,
		subjects:   deps.Subjects,
		validate:   deps.Validate,
		translator: deps.Translator,
		logger:     deps.Logger,
	}
}

// State returns a snapshot of the current view-state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *Manager) dispatch(e event) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = reduce(m.state, e)
	return m.state.clone()
}

func (m *Manager) nextSeq() uint64 {
	return atomic.AddUint64(&m.seq, 1)
}

func (m *Manager) validationMessage(err error) core.Message {
	if core.HasTag(err, "required") {
		return msgRequired
	}
	return core.ErrorMessage(core.TranslateFirst(err, m.translator))
}

// Activate is the full initial load of the screen: the list with the active filter and both
// assignment dropdowns. The requests are issued together and settle independently.
func (m *Manager) Activate(ctx context.Context) {
	filter := m.State().Filter
	core.Concurrently(
		func() { m.list(ctx, filter) },
		func() { m.loadAssignmentStudents(ctx) },
		func() { m.loadAssignmentSubjects(ctx) },
	)
}

// ApplyFilter marks the list as filtered and re-fetches it with only the set constraints.
func (m *Manager) ApplyFilter(ctx context.Context, filter Filter) {
	err := filter.Validate(m.validate)
	m.dispatch(filterApplied{filter: filter})
	if err != nil {
		seq := m.nextSeq()
		m.dispatch(listRequested{seq: seq, filter: filter})
		m.dispatch(listFailed{seq: seq, msg: core.TranslateFirst(err, m.translator)})
		return
	}
	m.list(ctx, filter)
}

func (m *Manager) list(ctx context.Context, filter Filter) {
	seq := m.nextSeq()
	m.dispatch(listRequested{seq: seq, filter: filter})

	students, err := m.repo.QueryStudents(ctx, filter)
	if err != nil {
		m.logger.Error("Erro ao buscar alunos", errors.Wrap(err, "querying students"))
		m.dispatch(listFailed{seq: seq, msg: core.UserMessage(err, "Erro ao buscar alunos")})
		return
	}
	m.dispatch(listLoaded{seq: seq, students: students})
}

// Create validates the form locally and only then asks the API to create the student.
// On failure the form keeps its values.
func (m *Manager) Create(ctx context.Context, form Form) bool {
	err := form.Validate(m.validate)
	m.dispatch(formSubmitted{form: form})
	if err != nil {
		m.dispatch(formMessage{msg: m.validationMessage(err)})
		return false
	}

	if _, err = m.repo.CreateStudent(ctx, form.NewStudent()); err != nil {
		m.logger.Error("Erro ao enviar formulário", errors.Wrap(err, "creating student"))
		m.dispatch(formMessage{msg: core.ErrorMessage(core.UserMessage(err, "Erro ao criar aluno"))})
		return false
	}

	s := m.dispatch(formReset{msg: msgCreated})
	core.Concurrently(
		func() { m.list(ctx, s.Filter) },
		func() { m.loadAssignmentStudents(ctx) },
	)
	return true
}

// BeginEdit snapshots the student into the edit buffer, replacing any edit in progress.
func (m *Manager) BeginEdit(id string) bool {
	s, ok := Find(m.State().Students, id)
	if !ok {
		return false
	}
	m.dispatch(editStarted{student: s})
	return true
}

func (m *Manager) SaveEdit(ctx context.Context, form Form) bool {
	editing := m.State().Editing
	if !editing.Active() {
		return false
	}

	err := form.Validate(m.validate)
	m.dispatch(editSubmitted{form: form})
	if err != nil {
		m.dispatch(editMessage{msg: m.validationMessage(err)})
		return false
	}

	if _, err = m.repo.UpdateStudent(ctx, form.UpdateStudent(editing.ID)); err != nil {
		m.logger.Error("Erro ao atualizar aluno", errors.Wrap(err, "updating student"))
		m.dispatch(editMessage{msg: core.ErrorMessage(core.UserMessage(err, "Erro ao atualizar aluno"))})
		return false
	}

	s := m.dispatch(editFinished{msg: msgUpdated})
	m.list(ctx, s.Filter)
	return true
}

// CancelEdit drops the edit buffer without talking to the API.
func (m *Manager) CancelEdit() {
	m.dispatch(editFinished{})
}

// RequestDelete asks for confirmation; nothing is deleted until Confirm(ctx, true).
func (m *Manager) RequestDelete(id string) {
	m.dispatch(confirmationRequested{confirmation: core.Confirmation{
		Kind:     core.ConfirmDelete,
		TargetID: id,
		Prompt:   promptDelete,
	}})
}

// RequestUnassign asks for confirmation before removing subjectID from the selected student.
// Nothing is asked while no student is selected.
func (m *Manager) RequestUnassign(subjectID string) {
	if m.State().Assignment.SelectedStudentID == "" {
		return
	}
	s := m.dispatch(assignMessage{})
	m.dispatch(confirmationRequested{confirmation: core.Confirmation{
		Kind:      core.ConfirmUnassign,
		TargetID:  s.Assignment.SelectedStudentID,
		SubjectID: subjectID,
		Prompt:    promptUnassign,
	}})
}

// Confirm answers the pending confirmation. A negative answer issues no request.
func (m *Manager) Confirm(ctx context.Context, yes bool) {
	pending := m.takePending()
	if !yes || !pending.IsPending() {
		return
	}
	switch pending.Kind {
	case core.ConfirmDelete:
		m.delete(ctx, pending.TargetID)
	case core.ConfirmUnassign:
		m.unassign(ctx, pending.TargetID, pending.SubjectID)
	}
}

func (m *Manager) takePending() core.Confirmation {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := m.state.Pending
	m.state = reduce(m.state, confirmationAnswered{})
	return pending
}

func (m *Manager) delete(ctx context.Context, id string) {
	if err := m.repo.DeleteStudent(ctx, id); err != nil {
		m.logger.Error("Erro ao excluir aluno", errors.Wrapf(err, "deleting student %s", id))
		text := core.UserMessage(err, "Erro ao excluir aluno com ID: "+id)
		m.dispatch(formMessage{msg: core.Message("Erro ao excluir: " + text)})
		return
	}

	s := m.dispatch(deleted{id: id, msg: msgDeleted})
	core.Concurrently(
		func() { m.list(ctx, s.Filter) },
		func() { m.loadAssignmentStudents(ctx) },
	)
}

// assignment section

func (m *Manager) loadAssignmentStudents(ctx context.Context) {
	seq := m.nextSeq()
	students, err := m.repo.QueryStudents(ctx, Filter{})
	if err != nil {
		m.logger.Error("Erro ao buscar alunos para atribuição", errors.Wrap(err, "querying students"))
		text := core.UserMessage(err, "Erro ao buscar todos os alunos para atribuição")
		m.dispatch(assignMessage{msg: core.Message("Erro ao carregar alunos: " + text)})
		return
	}

	s := m.dispatch(assignStudentsLoaded{seq: seq, students: students})
	if id := s.Assignment.SelectedStudentID; id != "" && s.assignedSeq == seq {
		m.fetchAssigned(ctx, seq, id)
	}
}

func (m *Manager) loadAssignmentSubjects(ctx context.Context) {
	subjects, err := m.subjects.QuerySubjects(ctx)
	if err != nil {
		m.logger.Error("Erro ao buscar matérias para atribuição", errors.Wrap(err, "querying subjects"))
		text := core.UserMessage(err, "Erro ao buscar todas as matérias para atribuição")
		m.dispatch(assignMessage{msg: core.Message("Erro ao carregar matérias: " + text)})
		return
	}
	m.dispatch(assignSubjectsLoaded{subjects: subjects})
}

func (m *Manager) fetchAssigned(ctx context.Context, seq uint64, studentID string) {
	st, err := m.repo.GetStudent(ctx, studentID)
	if err != nil {
		m.logger.Error("Erro ao buscar matérias atribuídas ao aluno", errors.Wrapf(err, "getting student %s", studentID))
		m.dispatch(assignedFailed{seq: seq})
		return
	}
	m.dispatch(assignedLoaded{seq: seq, subjects: st.Subjects})
}

// SelectStudent changes the assignment target and re-fetches its subjects exactly once.
// If an older selection's response arrives later it is dropped.
func (m *Manager) SelectStudent(ctx context.Context, id string) {
	seq := m.nextSeq()
	m.dispatch(studentSelected{seq: seq, id: id})
	if id != "" {
		m.fetchAssigned(ctx, seq, id)
	}
}

func (m *Manager) SelectSubject(id string) {
	m.dispatch(subjectSelected{id: id})
}

// Assign links the selected subject to the selected student. A subject already in the
// assigned view is refused locally, without calling the API.
func (m *Manager) Assign(ctx context.Context) {
	a := m.dispatch(assignMessage{}).Assignment
	if a.SelectedStudentID == "" || a.SelectedSubjectID == "" {
		m.dispatch(assignMessage{msg: msgSelectBoth})
		return
	}

	subj, found := subject.Find(a.Subjects, a.SelectedSubjectID)
	if found && subject.Contains(a.Assigned, subj.ID) {
		m.dispatch(assignMessage{msg: msgAlreadyAssigned})
		return
	}

	if err := m.repo.AssignStudentSubject(ctx, a.SelectedStudentID, a.SelectedSubjectID); err != nil {
		m.logger.Error("Erro ao atribuir matéria", errors.Wrap(err, "assigning subject"))
		text := core.UserMessage(err, "Erro ao atribuir matéria.")
		if errors.Is(err, subject.ErrAlreadyAssigned) {
			text = "Matéria já está atribuída a este aluno."
		}
		m.dispatch(assignMessage{msg: core.Message("Erro ao atribuir: " + text)})
		return
	}

	m.dispatch(subjectAssigned{studentID: a.SelectedStudentID, subject: subj, msg: msgAssigned})
}

func (m *Manager) unassign(ctx context.Context, studentID, subjectID string) {
	if err := m.repo.UnassignStudentSubject(ctx, studentID, subjectID); err != nil {
		m.logger.Error("Erro ao remover matéria", errors.Wrap(err, "unassigning subject"))
		text := core.UserMessage(err, "Erro ao remover matéria.")
		m.dispatch(assignMessage{msg: core.Message("Erro ao remover: " + text)})
		return
	}
	m.dispatch(subjectUnassigned{studentID: studentID, subjectID: subjectID, msg: msgUnassigned})
}
