package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/models"
)

const (
	errBlankDescription = "Descrição não pode ser vazia"
	errInvalidBody      = "Corpo da requisição inválido"
	errInvalidID        = "ID de tarefa inválido"
	errInvalidStatus    = "concluida deve ser 0 ou 1"
	errTaskNotFound     = "Tarefa não encontrada"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		s.fail(c, "get_tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) addTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidBody})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errBlankDescription})
		return
	}

	task, err := s.store.CreateTask(req.Description)
	if err != nil {
		s.fail(c, "add_task", err)
		return
	}
	s.refreshGauge()
	c.JSON(http.StatusCreated, models.CreateTaskResponse{Success: true, Task: *task})
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidBody})
		return
	}
	if req.Completed == nil || (*req.Completed != 0 && *req.Completed != 1) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidStatus})
		return
	}

	stamp, err := s.store.SetCompleted(id, *req.Completed == 1)
	if err != nil {
		s.fail(c, "update_task", err)
		return
	}
	s.refreshGauge()

	res := models.UpdateStatusResponse{Success: true}
	if stamp != "" {
		res.CompletedAt = &stamp
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) editTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req models.EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidBody})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errBlankDescription})
		return
	}

	desc, err := s.store.UpdateDescription(id, req.Description)
	if err != nil {
		s.fail(c, "edit_task", err)
		return
	}
	c.JSON(http.StatusOK, models.EditTaskResponse{Success: true, NewDescription: desc})
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteTask(id); err != nil {
		s.fail(c, "delete_task", err)
		return
	}
	s.refreshGauge()
	c.JSON(http.StatusOK, models.DeleteTaskResponse{Success: true})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidID})
		return 0, false
	}
	return id, true
}

// fail maps a store error to a response
func (s *Server) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: errTaskNotFound})
		return
	}
	s.log.Error("Task store failed", "op", op, "request_id", c.GetString(requestIDHeader), "error", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
}
