package teacher

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
	msgRequired        = core.ErrorMessage("Nome, Departamento e Email são obrigatórios!")
	msgSelectBoth      = core.ErrorMessage("Selecione um professor e uma matéria.")
	msgAlreadyAssigned = core.ErrorMessage("Matéria já está atribuída a este professor.")
	msgCreated         = core.Message("Sucesso: Professor criado com sucesso!")
	msgUpdated         = core.Message("Sucesso: Professor atualizado com sucesso!")
	msgDeleted         = core.Message("Sucesso: Professor excluído com sucesso!")
	msgAssigned        = core.Message("Matéria atribuída com sucesso ao professor!")
	msgUnassigned      = core.Message("Matéria removida com sucesso do professor!")

	promptDelete   = "Tem certeza que deseja excluir este professor?"
	promptUnassign = "Tem certeza que deseja remover esta matéria do professor?"
)

type Deps struct {
	Repo       Repository
	Subjects   subject.Repository
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger
}

// Manager owns the teacher screen's view-state for one operator session.
// Subject assignment happens inside the edit form of the teacher being edited.
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

// Activate starts the screen over: filter, forms and messages are cleared and the
// unfiltered list is fetched.
func (m *Manager) Activate(ctx context.Context) {
	m.dispatch(reset{})
	m.list(ctx, Filter{})
}

func (m *Manager) ApplyFilter(ctx context.Context, filter Filter) {
	filter.Clean()
	m.dispatch(filterApplied{})
	m.list(ctx, filter)
}

func (m *Manager) list(ctx context.Context, filter Filter) {
	seq := m.nextSeq()
	m.dispatch(listRequested{seq: seq, filter: filter})

	teachers, err := m.repo.QueryTeachers(ctx, filter)
	if err != nil {
		m.logger.Error("Erro ao buscar professores", errors.Wrap(err, "querying teachers"))
		m.dispatch(listFailed{seq: seq, msg: core.UserMessage(err, "Erro ao buscar professores")})
		return
	}
	m.dispatch(listLoaded{seq: seq, teachers: teachers})
}

func (m *Manager) Create(ctx context.Context, form Form) bool {
	err := form.Validate(m.validate)
	m.dispatch(formSubmitted{form: form})
	if err != nil {
		m.dispatch(formMessage{msg: msgRequired})
		return false
	}

	if _, err = m.repo.CreateTeacher(ctx, form.NewTeacher()); err != nil {
		m.logger.Error("Erro ao criar professor", errors.Wrap(err, "creating teacher"))
		m.dispatch(formMessage{msg: core.ErrorMessage(core.UserMessage(err, "Erro ao criar professor"))})
		return false
	}

	s := m.dispatch(formReset{msg: msgCreated})
	m.list(ctx, s.Filter)
	return true
}

// BeginEdit puts the teacher in edit mode and loads the subject dropdown together with
// the teacher's current subjects. Leaving edit mode drops whatever is still in flight.
func (m *Manager) BeginEdit(ctx context.Context, id string) bool {
	t, ok := Find(m.State().Teachers, id)
	if !ok {
		return false
	}

	seq := m.nextSeq()
	m.dispatch(editStarted{seq: seq, teacher: t})
	core.Concurrently(
		func() { m.loadSubjects(ctx, seq) },
		func() { m.fetchAssigned(ctx, seq, id) },
	)
	return true
}

func (m *Manager) loadSubjects(ctx context.Context, seq uint64) {
	subjects, err := m.subjects.QuerySubjects(ctx)
	if err != nil {
		m.logger.Error("Erro ao buscar matérias", errors.Wrap(err, "querying subjects"))
		text := core.UserMessage(err, "Erro ao buscar matérias.")
		m.dispatch(assignMessage{seq: seq, msg: core.Message("Erro ao carregar matérias: " + text)})
		return
	}
	m.dispatch(subjectsLoaded{seq: seq, subjects: subjects})
}

func (m *Manager) fetchAssigned(ctx context.Context, seq uint64, teacherID string) {
	t, err := m.repo.GetTeacher(ctx, teacherID)
	if err != nil {
		m.logger.Error("Erro ao buscar matérias do professor", errors.Wrapf(err, "getting teacher %s", teacherID))
		text := core.UserMessage(err, "Erro ao buscar matérias do professor.")
		m.dispatch(assignMessage{seq: seq, msg: core.Message("Erro ao carregar matérias do professor: " + text)})
		return
	}
	m.dispatch(assignedLoaded{seq: seq, subjects: t.Subjects})
}

func (m *Manager) SaveEdit(ctx context.Context, form Form) bool {
	editing := m.State().Editing
	if !editing.Active() {
		return false
	}

	err := form.Validate(m.validate)
	m.dispatch(editSubmitted{form: form})
	if err != nil {
		m.dispatch(editMessage{msg: msgRequired})
		return false
	}

	if _, err = m.repo.UpdateTeacher(ctx, form.UpdateTeacher(editing.ID)); err != nil {
		m.logger.Error("Erro ao atualizar professor", errors.Wrap(err, "updating teacher"))
		m.dispatch(editMessage{msg: core.ErrorMessage(core.UserMessage(err, "Erro ao atualizar professor"))})
		return false
	}

	s := m.dispatch(editFinished{msg: msgUpdated})
	m.list(ctx, s.Filter)
	return true
}

func (m *Manager) CancelEdit() {
	m.dispatch(editFinished{})
}

func (m *Manager) RequestDelete(id string) {
	m.dispatch(confirmationRequested{confirmation: core.Confirmation{
		Kind:     core.ConfirmDelete,
		TargetID: id,
		Prompt:   promptDelete,
	}})
}

// RequestUnassign asks for confirmation before removing subjectID from the teacher being edited.
func (m *Manager) RequestUnassign(subjectID string) {
	editing := m.State().Editing
	if !editing.Active() {
		return
	}
	m.dispatch(confirmationRequested{confirmation: core.Confirmation{
		Kind:      core.ConfirmUnassign,
		TargetID:  editing.ID,
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
	if err := m.repo.DeleteTeacher(ctx, id); err != nil {
		m.logger.Error("Erro ao excluir professor", errors.Wrapf(err, "deleting teacher %s", id))
		text := core.UserMessage(err, "Erro ao excluir professor com ID: "+id)
		m.dispatch(formMessage{msg: core.Message("Erro ao excluir: " + text)})
		return
	}

	s := m.dispatch(deleted{id: id, msg: msgDeleted})
	m.list(ctx, s.Filter)
}

func (m *Manager) SelectSubject(id string) {
	m.dispatch(subjectSelected{id: id})
}

// Assign links the selected subject to the teacher being edited, refusing locally a subject
// that is already listed.
func (m *Manager) Assign(ctx context.Context) {
	s := m.State()
	teacherID, subjectID := s.Editing.ID, s.Assignment.SelectedSubjectID
	seq := s.assignSeq
	if teacherID == "" || subjectID == "" {
		m.dispatch(assignMessage{seq: seq, msg: msgSelectBoth})
		return
	}

	subj, found := subject.Find(s.Assignment.Subjects, subjectID)
	if found && subject.Contains(s.Assignment.Assigned, subjectID) {
		m.dispatch(assignMessage{seq: seq, msg: msgAlreadyAssigned})
		return
	}

	if err := m.repo.AssignTeacherSubject(ctx, teacherID, subjectID); err != nil {
		m.logger.Error("Erro ao atribuir matéria ao professor", errors.Wrap(err, "assigning subject"))
		msg := core.ErrorMessage(core.UserMessage(err, "Erro ao atribuir matéria ao professor."))
		if errors.Is(err, subject.ErrAlreadyAssigned) {
			msg = msgAlreadyAssigned
		}
		m.dispatch(assignMessage{seq: seq, msg: msg})
		return
	}

	m.dispatch(subjectAssigned{teacherID: teacherID, subject: subj, msg: msgAssigned})
}

func (m *Manager) unassign(ctx context.Context, teacherID, subjectID string) {
	if err := m.repo.UnassignTeacherSubject(ctx, teacherID, subjectID); err != nil {
		m.logger.Error("Erro ao remover matéria do professor", errors.Wrap(err, "unassigning subject"))
		msg := core.ErrorMessage(core.UserMessage(err, "Erro ao remover matéria do professor."))
		m.dispatch(assignMessage{seq: m.State().assignSeq, msg: msg})
		return
	}
	m.dispatch(subjectUnassigned{teacherID: teacherID, subjectID: subjectID, msg: msgUnassigned})
}
