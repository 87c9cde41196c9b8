// Package controller sequences user intents against the task gateway and
// the board. Validation happens synchronously in Dispatch; the network call
// runs in the returned tea.Cmd and its outcome is applied by Apply on the
// update loop, in arrival order.
package controller

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/render"
)

// User-facing messages
const (
	MsgBlankTask  = "Por favor, digite uma descrição para a tarefa."
	MsgAddFailed  = "Houve um problema ao adicionar sua tarefa."
	MsgBlankEdit  = "A descrição não pode ficar vazia."
	MsgEditFailed = "Erro ao salvar a edição."
)

// Gateway is the part of the backend client the controller needs
type Gateway interface {
	ListTasks(ctx context.Context) []models.Task
	CreateTask(ctx context.Context, description string) gateway.CreateResult
	UpdateStatus(ctx context.Context, id int64, completed bool) gateway.StatusResult
	EditDescription(ctx context.Context, id int64, description string) gateway.EditResult
	DeleteTask(ctx context.Context, id int64) gateway.Result
}

// Notifier shows a blocking message to the user
type Notifier interface {
	Alert(message string)
}

// Input is the new-task text field
type Input interface {
	Value() string
	Clear()
}

// Controller owns the board and routes events to the gateway
type Controller struct {
	ctx    context.Context
	gw     Gateway
	board  *render.Board
	notify Notifier
	input  Input
	log    *slog.Logger

	// latest sequence number issued per task and operation
	seq map[seqKey]uint64
}

type operation int

const (
	opStatus operation = iota
	opEdit
	opDelete
)

type seqKey struct {
	id int64
	op operation
}

// Option configures a Controller
type Option func(*Controller)

// WithContext sets the context network calls run under
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// WithLogger sets the controller's logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New creates a controller driving board
func New(gw Gateway, board *render.Board, notify Notifier, input Input, opts ...Option) *Controller {
	c := &Controller{
		ctx:    context.Background(),
		gw:     gw,
		board:  board,
		notify: notify,
		input:  input,
		log:    slog.Default(),
		seq:    make(map[seqKey]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) alert(msg string) {
	if c.notify != nil {
		c.notify.Alert(msg)
	}
}

// next issues a new sequence number for an operation on id
func (c *Controller) next(id int64, op operation) uint64 {
	k := seqKey{id, op}
	c.seq[k]++
	return c.seq[k]
}

// latest reports whether seq is the newest number issued for op on id
func (c *Controller) latest(id int64, op operation, seq uint64) bool {
	return c.seq[seqKey{id, op}] == seq
}

func (c *Controller) forget(id int64) {
	for _, op := range []operation{opStatus, opEdit, opDelete} {
		delete(c.seq, seqKey{id, op})
	}
}

// Initialize fetches every task and rebuilds the board
func (c *Controller) Initialize() tea.Cmd {
	ctx := c.ctx
	return func() tea.Msg {
		return tasksLoadedMsg{tasks: c.gw.ListTasks(ctx)}
	}
}

// Dispatch handles one user intent. It returns the command performing the
// network call, or nil when the intent was rejected or needs no call.
func (c *Controller) Dispatch(ev render.Event) tea.Cmd {
	switch ev := ev.(type) {
	case render.TaskCreated:
		return c.add()
	case render.StatusToggled:
		return c.changeStatus(ev)
	case render.DeleteRequested:
		return c.delete(ev)
	case render.EditRequested:
		c.startEdit(ev)
		return nil
	case render.EditSaved:
		return c.saveEdit(ev)
	}
	return nil
}

func (c *Controller) add() tea.Cmd {
	if c.input == nil {
		return nil
	}
	description := c.input.Value()
	if strings.TrimSpace(description) == "" {
		c.alert(MsgBlankTask)
		return nil
	}

	ctx := c.ctx
	return func() tea.Msg {
		return taskAddedMsg{res: c.gw.CreateTask(ctx, description)}
	}
}

func (c *Controller) changeStatus(ev render.StatusToggled) tea.Cmd {
	seq := c.next(ev.ID, opStatus)
	ctx := c.ctx
	return func() tea.Msg {
		return statusUpdatedMsg{
			ev:  ev,
			seq: seq,
			res: c.gw.UpdateStatus(ctx, ev.ID, ev.Completed),
		}
	}
}

func (c *Controller) delete(ev render.DeleteRequested) tea.Cmd {
	if !ev.Confirmed {
		return nil
	}
	seq := c.next(ev.ID, opDelete)
	ctx := c.ctx
	return func() tea.Msg {
		return taskDeletedMsg{id: ev.ID, seq: seq, res: c.gw.DeleteTask(ctx, ev.ID)}
	}
}

func (c *Controller) startEdit(ev render.EditRequested) {
	if _, err := c.board.EnterEdit(c.board.Node(ev.ID)); err != nil {
		c.log.Debug("edit requested on missing task", "id", ev.ID, "err", err)
	}
}

func (c *Controller) saveEdit(ev render.EditSaved) tea.Cmd {
	n := c.board.Node(ev.ID)
	if n == nil || n.Editor == nil {
		return nil
	}
	description := n.Editor.Value
	if strings.TrimSpace(description) == "" {
		c.alert(MsgBlankEdit)
		return nil
	}

	seq := c.next(ev.ID, opEdit)
	ctx := c.ctx
	return func() tea.Msg {
		return descriptionEditedMsg{
			id:  ev.ID,
			seq: seq,
			res: c.gw.EditDescription(ctx, ev.ID, description),
		}
	}
}

// Apply mutates the board with the outcome of a command returned by
// Initialize or Dispatch. It reports whether msg belonged to the controller.
func (c *Controller) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		c.applyLoaded(msg)
	case taskAddedMsg:
		c.applyAdded(msg)
	case statusUpdatedMsg:
		c.applyStatus(msg)
	case taskDeletedMsg:
		c.applyDeleted(msg)
	case descriptionEditedMsg:
		c.applyEdited(msg)
	default:
		return false
	}
	return true
}

func (c *Controller) applyLoaded(msg tasksLoadedMsg) {
	c.board.Clear()
	for _, t := range msg.tasks {
		c.board.Render(t, c.board.Container(bool(t.Completed)))
	}
	c.board.UpdateCounters()
}

func (c *Controller) applyAdded(msg taskAddedMsg) {
	if !msg.res.OK {
		c.alert(MsgAddFailed)
		return
	}
	if c.input != nil {
		c.input.Clear()
	}
	c.board.Render(msg.res.Task, c.board.Pending)
	c.board.UpdateCounters()
}

func (c *Controller) applyStatus(msg statusUpdatedMsg) {
	if !c.latest(msg.ev.ID, opStatus, msg.seq) {
		c.log.Debug("dropping stale status response", "id", msg.ev.ID, "seq", msg.seq)
		return
	}
	if !msg.res.OK {
		return
	}

	label := render.CreatedLabel(msg.ev.CreatedAt)
	if msg.ev.Completed {
		label = render.CompletedLabel(msg.res.CompletedAt)
	}
	c.board.Move(msg.ev.ID, msg.ev.Completed, label)
	c.board.UpdateCounters()
}

func (c *Controller) applyDeleted(msg taskDeletedMsg) {
	if !c.latest(msg.id, opDelete, msg.seq) {
		c.log.Debug("dropping stale delete response", "id", msg.id, "seq", msg.seq)
		return
	}
	if !msg.res.OK {
		return
	}
	c.board.Remove(msg.id)
	c.board.UpdateCounters()
	c.forget(msg.id)
}

func (c *Controller) applyEdited(msg descriptionEditedMsg) {
	if !c.latest(msg.id, opEdit, msg.seq) {
		c.log.Debug("dropping stale edit response", "id", msg.id, "seq", msg.seq)
		return
	}
	n := c.board.Node(msg.id)
	if n == nil || n.Editor == nil {
		return
	}

	description := msg.res.Description
	if !msg.res.OK {
		c.alert(MsgEditFailed)
		description = n.Editor.Default
	}
	if err := c.board.ExitEdit(n, description); err != nil {
		c.log.Debug("exit edit failed", "id", msg.id, "err", err)
	}
}
