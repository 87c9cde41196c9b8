package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/models"
)

type listOnly struct {
	tasks []models.Task
}

func (g listOnly) ListTasks(context.Context) []models.Task { return g.tasks }
func (listOnly) CreateTask(context.Context, string) gateway.CreateResult {
	return gateway.CreateResult{}
}
func (listOnly) UpdateStatus(context.Context, int64, bool) gateway.StatusResult {
	return gateway.StatusResult{}
}
func (listOnly) EditDescription(context.Context, int64, string) gateway.EditResult {
	return gateway.EditResult{}
}
func (listOnly) DeleteTask(context.Context, int64) gateway.Result { return gateway.Result{} }

func TestAppLoadsAndRendersSections(t *testing.T) {
	app := NewApp(listOnly{tasks: []models.Task{
		{ID: 1, Description: "write report", CreatedAt: "2024-01-01 10:00:00"},
		{ID: 2, Description: "call bank", Completed: true, CreatedAt: "2024-01-01 09:00:00", CompletedAt: "2024-01-02 08:30:00"},
	}})

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	app.Update(app.Init()())

	assert.Equal(t, 80, app.width)
	view := app.View()
	assert.Contains(t, view, "Pendentes")
	assert.Contains(t, view, "Concluídas")
	assert.Contains(t, view, "write report")
	assert.Contains(t, view, "Concluída em: 02/01/2024 às 08:30")
}
