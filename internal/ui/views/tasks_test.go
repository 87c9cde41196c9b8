package views

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/todo/internal/controller"
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/models"
)

// stubGateway keeps tasks in memory the way the backend would
type stubGateway struct {
	tasks  []models.Task
	nextID int64
	calls  []string
	fail   bool
}

func (g *stubGateway) ListTasks(ctx context.Context) []models.Task {
	g.calls = append(g.calls, "list")
	return append([]models.Task(nil), g.tasks...)
}

func (g *stubGateway) CreateTask(ctx context.Context, description string) gateway.CreateResult {
	g.calls = append(g.calls, "create")
	if g.fail {
		return gateway.CreateResult{}
	}
	g.nextID++
	t := models.Task{ID: g.nextID, Description: description, CreatedAt: "2024-01-01 10:00:00"}
	g.tasks = append(g.tasks, t)
	return gateway.CreateResult{Result: gateway.Result{OK: true}, Task: t}
}

func (g *stubGateway) UpdateStatus(ctx context.Context, id int64, completed bool) gateway.StatusResult {
	g.calls = append(g.calls, "status")
	if g.fail {
		return gateway.StatusResult{}
	}
	res := gateway.StatusResult{Result: gateway.Result{OK: true}}
	if completed {
		res.CompletedAt = "2024-01-01 11:00:00"
	}
	return res
}

func (g *stubGateway) EditDescription(ctx context.Context, id int64, description string) gateway.EditResult {
	g.calls = append(g.calls, "edit")
	if g.fail {
		return gateway.EditResult{}
	}
	return gateway.EditResult{Result: gateway.Result{OK: true}, Description: description}
}

func (g *stubGateway) DeleteTask(ctx context.Context, id int64) gateway.Result {
	g.calls = append(g.calls, "delete")
	return gateway.Result{OK: !g.fail}
}

func newTestView(t *testing.T, gw *stubGateway) *TaskListView {
	t.Helper()
	v := NewTaskListView(gw, controller.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	run(v, v.Init())
	gw.calls = nil
	return v
}

// run executes cmd like the runtime and feeds its message back into the view
func run(v *TaskListView, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	v.Update(cmd())
}

func press(v *TaskListView, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := v.Update(msg)
	return cmd
}

func typeText(v *TaskListView, s string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestView_AddTaskFromInput(t *testing.T) {
	gw := &stubGateway{}
	v := newTestView(t, gw)

	press(v, "n")
	require.Equal(t, FocusNewTask, v.focus)
	typeText(v, "Buy milk")
	run(v, press(v, "enter"))

	assert.Equal(t, []string{"create"}, gw.calls)
	require.Equal(t, []int64{1}, v.board.Pending.IDs())
	assert.Equal(t, "(1)", v.board.Pending.Counter)
	assert.Empty(t, v.newTask.Value())
	assert.Contains(t, v.View(), "Buy milk")
	assert.Contains(t, v.View(), "Criada em: 01/01/2024 às 10:00")
}

func TestView_BlankAddShowsAlert(t *testing.T) {
	gw := &stubGateway{}
	v := newTestView(t, gw)

	press(v, "n")
	typeText(v, "   ")
	cmd := press(v, "enter")

	assert.Nil(t, cmd)
	assert.Empty(t, gw.calls)
	assert.Equal(t, controller.MsgBlankTask, v.alert)
	assert.Contains(t, v.View(), controller.MsgBlankTask)

	// any key dismisses the alert and is otherwise swallowed
	press(v, "x")
	assert.Empty(t, v.alert)
	assert.Equal(t, "   ", v.newTask.Value())
}

func TestView_ToggleMovesTask(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 1, Description: "a", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)

	run(v, press(v, "space"))

	assert.Equal(t, []string{"status"}, gw.calls)
	assert.Equal(t, []int64{1}, v.board.Completed.IDs())
	assert.Equal(t, "(0)", v.board.Pending.Counter)
	assert.Equal(t, "(1)", v.board.Completed.Counter)
	assert.Equal(t, 0, v.cursor, "cursor follows the moved task")
	assert.Contains(t, v.View(), "Concluída em: 01/01/2024 às 11:00")
}

func TestView_ToggleFailureKeepsCheckbox(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 1, Description: "a", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)
	gw.fail = true

	run(v, press(v, "space"))

	assert.Equal(t, []int64{1}, v.board.Pending.IDs())
	assert.False(t, v.board.Node(1).Checked())
	assert.Contains(t, v.View(), "[ ]")
}

func TestView_DeleteNeedsConfirmation(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 1, Description: "a", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)

	press(v, "d")
	require.True(t, v.confirmingDelete)
	assert.Contains(t, v.View(), "Tem certeza")
	run(v, press(v, "n"))

	assert.False(t, v.confirmingDelete)
	assert.Empty(t, gw.calls)
	assert.NotNil(t, v.board.Node(1))

	press(v, "d")
	run(v, press(v, "y"))

	assert.Equal(t, []string{"delete"}, gw.calls)
	assert.Nil(t, v.board.Node(1))
	assert.Equal(t, "(0)", v.board.Pending.Counter)
}

func TestView_EditAndSave(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 2, Description: "old", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)

	press(v, "e")
	require.Equal(t, FocusEditor, v.focus)
	n := v.board.Node(2)
	require.NotNil(t, n.Editor)
	assert.Equal(t, "old", v.editInput.Value())
	assert.NotContains(t, v.View(), "Criada em", "date label hidden while editing")

	typeText(v, " new")
	assert.Equal(t, "old new", n.Editor.Value)

	run(v, press(v, "enter"))

	assert.Equal(t, []string{"edit"}, gw.calls)
	assert.Nil(t, n.Editor)
	assert.Equal(t, "old new", n.Description)
	assert.Equal(t, FocusTaskList, v.focus)
}

func TestView_EditBlankStaysOpen(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 2, Description: "old", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)

	press(v, "e")
	v.editInput.SetValue("")
	cmd := press(v, "enter")

	assert.Nil(t, cmd)
	assert.Empty(t, gw.calls)
	assert.Equal(t, controller.MsgBlankEdit, v.alert)
	assert.NotNil(t, v.board.Node(2).Editor)
	assert.Equal(t, "old", v.board.Node(2).Description)

	press(v, "x") // dismiss
	assert.Equal(t, FocusEditor, v.focus)
}

func TestView_EscLeavesEditorOpen(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{
		{ID: 1, Description: "a", CreatedAt: "2024-01-01 10:00:00"},
		{ID: 2, Description: "b", CreatedAt: "2024-01-01 10:00:00"},
	}}
	v := newTestView(t, gw)

	press(v, "e")
	press(v, "esc")
	press(v, "down")
	press(v, "e")

	assert.Len(t, v.board.Editing(), 2)
	assert.Equal(t, int64(1), v.editingID)
}

func TestView_HiddenActionsIgnoredWhileEditing(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 1, Description: "a", CreatedAt: "2024-01-01 10:00:00"}}}
	v := newTestView(t, gw)

	press(v, "e")
	press(v, "esc")
	n := v.board.Node(1)
	require.NotNil(t, n.Editor)
	require.True(t, n.ActionsHidden)

	run(v, press(v, "space"))
	press(v, "d")
	assert.False(t, v.confirmingDelete)
	run(v, press(v, "y"))

	assert.Empty(t, gw.calls)
	assert.Equal(t, []int64{1}, v.board.Pending.IDs())
	assert.NotNil(t, v.board.Node(1).Editor)
}

func TestView_ReloadRebuildsBoard(t *testing.T) {
	gw := &stubGateway{}
	v := newTestView(t, gw)
	gw.tasks = []models.Task{
		{ID: 5, Description: "five", CreatedAt: "2024-01-01 10:00:00"},
		{ID: 6, Description: "six", CreatedAt: "2024-01-01 10:00:00"},
	}

	run(v, press(v, "r"))

	assert.Equal(t, []string{"list"}, gw.calls)
	assert.Equal(t, []int64{6, 5}, v.board.Pending.IDs())
}

func TestView_QuitKey(t *testing.T) {
	v := newTestView(t, &stubGateway{})
	cmd := press(v, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_UpdateAppliesControllerMessages(t *testing.T) {
	gw := &stubGateway{tasks: []models.Task{{ID: 9, Description: "x", CreatedAt: "2024-01-01 10:00:00"}}}
	v := NewTaskListView(gw)

	v.Update(v.Init()())

	assert.Equal(t, []int64{9}, v.board.Pending.IDs())
}
