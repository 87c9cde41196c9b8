package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Flag is a boolean that travels as 0/1 on the wire.
// It also accepts JSON true/false when decoding.
type Flag bool

// MarshalJSON encodes the flag as 0 or 1
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts 0, 1, true, false and null
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid flag value %s", data)
	}
	*f = n != 0
	return nil
}

// Task represents a single to-do item.
// CreatedAt and CompletedAt keep the stored "YYYY-MM-DD HH:MM:SS" text as is.
type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"descricao"`
	Completed   Flag   `json:"concluida"`
	CreatedAt   string `json:"data_criacao"`
	CompletedAt string `json:"data_conclusao,omitempty"`
}

// CreateTaskRequest is the body of POST /api/add_task
type CreateTaskRequest struct {
	Description string `json:"descricao"`
}

// CreateTaskResponse is the body answered by POST /api/add_task
type CreateTaskResponse struct {
	Success bool `json:"sucesso"`
	Task
}

// UpdateStatusRequest is the body of PUT /api/update_task/{id}.
// Completed must be 0 or 1; nil means the field was missing.
type UpdateStatusRequest struct {
	Completed *int `json:"concluida"`
}

// NewUpdateStatusRequest encodes completed as 0 or 1
func NewUpdateStatusRequest(completed bool) UpdateStatusRequest {
	v := 0
	if completed {
		v = 1
	}
	return UpdateStatusRequest{Completed: &v}
}

// UpdateStatusResponse carries the completion stamp, null when the task was reopened
type UpdateStatusResponse struct {
	Success     bool    `json:"sucesso"`
	CompletedAt *string `json:"data_conclusao"`
}

// EditTaskRequest is the body of PUT /api/edit_task/{id}
type EditTaskRequest struct {
	Description string `json:"descricao"`
}

// EditTaskResponse echoes the persisted description
type EditTaskResponse struct {
	Success        bool   `json:"sucesso"`
	NewDescription string `json:"nova_descricao"`
}

// DeleteTaskResponse is the body answered by DELETE /api/delete_task/{id}
type DeleteTaskResponse struct {
	Success bool `json:"sucesso"`
}

// ErrorResponse is returned by the API on any failure
type ErrorResponse struct {
	Error string `json:"erro"`
}
