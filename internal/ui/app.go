package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/todo/internal/controller"
	"github.com/tgienger/todo/internal/ui/views"
)

// App is the root Bubble Tea model
type App struct {
	taskList *views.TaskListView
	width    int
	height   int
}

// NewApp creates the application on top of a task gateway
func NewApp(gw controller.Gateway, opts ...controller.Option) *App {
	return &App{
		taskList: views.NewTaskListView(gw, opts...),
	}
}

func (a *App) Init() tea.Cmd {
	return a.taskList.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
	}

	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
