package controller

import (
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/render"
)

type tasksLoadedMsg struct {
	tasks []models.Task
}

type taskAddedMsg struct {
	res gateway.CreateResult
}

type statusUpdatedMsg struct {
	ev  render.StatusToggled
	seq uint64
	res gateway.StatusResult
}

type taskDeletedMsg struct {
	id  int64
	seq uint64
	res gateway.Result
}

type descriptionEditedMsg struct {
	id  int64
	seq uint64
	res gateway.EditResult
}
