package views

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/todo/internal/controller"
	"github.com/tgienger/todo/internal/render"
	"github.com/tgienger/todo/internal/ui/keys"
	"github.com/tgienger/todo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusNewTask
	FocusEditor
)

// TaskListView shows the pending and completed lists
type TaskListView struct {
	ctrl   *controller.Controller
	board  *render.Board
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus   FocusArea
	cursor  int
	scrollY int
	newTask textinput.Model

	// Inline editor with keyboard focus; other nodes may keep theirs open
	editInput textinput.Model
	editingID int64

	// Blocking notification, dismissed by any key
	alert string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

// newTaskField exposes the new-task input to the controller
type newTaskField struct {
	v *TaskListView
}

func (f newTaskField) Value() string { return f.v.newTask.Value() }
func (f newTaskField) Clear()        { f.v.newTask.Reset() }

// NewTaskListView creates the view and the controller behind it
func NewTaskListView(gw controller.Gateway, opts ...controller.Option) *TaskListView {
	newTask := textinput.New()
	newTask.Placeholder = "Nova tarefa..."
	newTask.CharLimit = 500

	editInput := textinput.New()
	editInput.CharLimit = 500

	v := &TaskListView{
		board:     render.NewBoard(),
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		focus:     FocusTaskList,
		newTask:   newTask,
		editInput: editInput,
	}
	v.ctrl = controller.New(gw, v.board, v, newTaskField{v}, opts...)
	return v
}

// Alert shows a blocking message until the next key press
func (v *TaskListView) Alert(message string) {
	slog.Debug("alert", "message", message)
	v.alert = message
}

// Init loads the task list
func (v *TaskListView) Init() tea.Cmd {
	return v.ctrl.Initialize()
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-8, 10, 60)
		v.newTask.Width = inputWidth
		v.editInput.Width = inputWidth - 10
		return v, nil

	case tea.KeyMsg:
		if v.alert != "" {
			v.alert = ""
			return v, nil
		}

		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		switch v.focus {
		case FocusNewTask:
			return v.updateNewTask(msg)
		case FocusEditor:
			return v.updateEditor(msg)
		}
		return v.updateNormal(msg)
	}

	selectedID := v.selectedID()
	if v.ctrl.Apply(msg) {
		v.followSelection(selectedID)
		v.syncEditorFocus()
		return v, nil
	}

	// Cursor blink and similar messages belong to the focused input
	var cmd tea.Cmd
	switch v.focus {
	case FocusNewTask:
		v.newTask, cmd = v.newTask.Update(msg)
	case FocusEditor:
		v.editInput, cmd = v.editInput.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.board.Rows())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New), key.Matches(msg, v.keys.Tab):
		return v, v.focusNewTask()

	case key.Matches(msg, v.keys.Toggle):
		if n := v.selected(); n != nil && !n.ActionsHidden {
			return v, v.ctrl.Dispatch(n.Toggle())
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if n := v.selected(); n != nil {
			v.ctrl.Dispatch(n.Edit())
			return v, v.focusEditor(n)
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on a node with an open editor resumes editing
		if n := v.selected(); n != nil && n.Editor != nil {
			return v, v.focusEditor(n)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if n := v.selected(); n != nil && !n.ActionsHidden {
			v.confirmingDelete = true
			v.deleteTargetID = n.ID
			v.deleteTargetName = n.Description
		}
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		return v, v.ctrl.Initialize()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateNewTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Tab):
		v.newTask.Blur()
		v.focus = FocusTaskList
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		return v, v.ctrl.Dispatch(render.TaskCreated{})
	case msg.Type == tea.KeyCtrlC:
		return v, tea.Quit
	}

	var cmd tea.Cmd
	v.newTask, cmd = v.newTask.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := v.board.Node(v.editingID)
	if n == nil || n.Editor == nil {
		v.blurEditor()
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		// The editor stays open on the node; only keyboard focus leaves it
		v.blurEditor()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		n.Editor.Value = v.editInput.Value()
		return v, v.ctrl.Dispatch(n.Editor.Save())
	case msg.Type == tea.KeyCtrlC:
		return v, tea.Quit
	}

	var cmd tea.Cmd
	v.editInput, cmd = v.editInput.Update(msg)
	n.Editor.Value = v.editInput.Value()
	return v, cmd
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "s", "S":
		v.confirmingDelete = false
		return v, v.ctrl.Dispatch(render.DeleteRequested{ID: v.deleteTargetID, Confirmed: true})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, v.ctrl.Dispatch(render.DeleteRequested{ID: v.deleteTargetID, Confirmed: false})
	}
	return v, nil
}

func (v *TaskListView) focusNewTask() tea.Cmd {
	v.focus = FocusNewTask
	v.newTask.Focus()
	return textinput.Blink
}

func (v *TaskListView) focusEditor(n *render.Node) tea.Cmd {
	if n.Editor == nil {
		return nil
	}
	v.focus = FocusEditor
	v.editingID = n.ID
	v.editInput.SetValue(n.Editor.Value)
	v.editInput.CursorEnd()
	v.editInput.Focus()
	return textinput.Blink
}

func (v *TaskListView) blurEditor() {
	v.editInput.Blur()
	v.editingID = 0
	v.focus = FocusTaskList
}

// syncEditorFocus drops editor focus once its node left edit mode
func (v *TaskListView) syncEditorFocus() {
	if v.focus != FocusEditor {
		return
	}
	if n := v.board.Node(v.editingID); n == nil || n.Editor == nil {
		v.blurEditor()
	}
}

func (v *TaskListView) selected() *render.Node {
	rows := v.board.Rows()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return nil
	}
	return rows[v.cursor]
}

func (v *TaskListView) selectedID() int64 {
	if n := v.selected(); n != nil {
		return n.ID
	}
	return 0
}

// followSelection keeps the cursor on the same task after the board changed
func (v *TaskListView) followSelection(id int64) {
	rows := v.board.Rows()
	for i, n := range rows {
		if n.ID == id {
			v.cursor = i
			v.ensureVisible()
			return
		}
	}
	v.cursor = clamp(v.cursor, 0, max(0, len(rows)-1))
	v.ensureVisible()
}

// visibleItems is how many task nodes fit; each node takes two lines
func (v *TaskListView) visibleItems() int {
	if v.height == 0 {
		return 1 << 16
	}
	return max((v.height-14)/2, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.alert != "" {
		return v.renderAlert()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderLists())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	inputStyle := s.Input
	if v.focus == FocusNewTask {
		inputStyle = s.InputFocused
	}
	input := inputStyle.Width(clamp(styles.ContentWidth(v.width)-4, 20, 70)).Render(v.newTask.View())
	return lipgloss.JoinVertical(lipgloss.Left, s.Title.Render("Minhas Tarefas"), input)
}

func (v *TaskListView) renderLists() string {
	pending := v.board.Pending.Nodes()
	completed := v.board.Completed.Nodes()

	start := v.scrollY
	end := start + v.visibleItems()

	var sections []string
	sections = append(sections, v.renderSection(v.board.Pending, pending, 0, start, end))
	sections = append(sections, v.renderSection(v.board.Completed, completed, len(pending), start, end))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSection draws one container; offset is the row index of its first node
func (v *TaskListView) renderSection(c *render.Container, nodes []*render.Node, offset, start, end int) string {
	s := v.styles
	header := s.Section.Render(c.Title) + " " + s.Counter.Render(c.Counter)

	lines := []string{header}
	if len(nodes) == 0 {
		lines = append(lines, s.Empty.Render("Nenhuma tarefa."))
	}
	for i, n := range nodes {
		row := offset + i
		if row < start || row >= end {
			continue
		}
		lines = append(lines, v.renderNode(n, row == v.cursor && v.focus != FocusNewTask))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) renderNode(n *render.Node, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-2, 20)

	var parts []string
	if !n.ActionsHidden {
		if n.Checked() {
			parts = append(parts, s.CheckDone.Render("[x]"))
		} else {
			parts = append(parts, s.Check.Render("[ ]"))
		}
	}
	if !n.DescriptionHidden {
		desc := s.Description
		if n.Completed {
			desc = s.DescriptionDone
		}
		parts = append(parts, desc.Render(n.Description))
	}
	if n.Editor != nil {
		text := n.Editor.Value
		if v.focus == FocusEditor && v.editingID == n.ID {
			text = v.editInput.View()
		}
		parts = append(parts, "✎ "+text, s.ButtonPrimary.Render("Salvar"))
	}
	if !n.ActionsHidden {
		parts = append(parts, s.Action.Render("e ✎  d ✕"))
	}

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.Selected
	}
	lines := []string{lineStyle.Width(width).Render(strings.Join(parts, " "))}
	if !n.DateHidden {
		lines = append(lines, s.DateLabel.Render(n.DateLabel))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " ajuda")
	}

	switch v.focus {
	case FocusNewTask:
		return s.Help.Render(fmt.Sprintf("%s adicionar • %s voltar",
			s.HelpKey.Render("↵"), s.HelpKey.Render("esc")))
	case FocusEditor:
		return s.Help.Render(fmt.Sprintf("%s salvar • %s sair do campo",
			s.HelpKey.Render("↵"), s.HelpKey.Render("esc")))
	}

	return s.Help.Render(
		fmt.Sprintf("%s nova • %s concluir • %s editar • %s apagar • %s recarregar • %s sair",
			s.HelpKey.Render("n"),
			s.HelpKey.Render("espaço"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("n") + "      nova tarefa",
		s.HelpKey.Render("↵") + "      adicionar / salvar edição",
		s.HelpKey.Render("espaço") + " concluir / reabrir",
		s.HelpKey.Render("e") + "      editar descrição",
		s.HelpKey.Render("d") + "      apagar tarefa",
		s.HelpKey.Render("r") + "      recarregar lista",
		s.HelpKey.Render("esc") + "    sair do campo",
		s.HelpKey.Render("q") + "      sair",
		"",
		s.TitleMuted.Render("Pressione qualquer tecla para fechar"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Atalhos"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Modal.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderAlert() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		v.alert,
		"",
		s.TitleMuted.Render("Pressione qualquer tecla"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Alert.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Tem certeza que deseja apagar esta tarefa?"),
		"",
		s.TitleMuted.Render(v.deleteTargetName),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Sim "),
			"  ",
			s.Button.Render(" N - Não "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
