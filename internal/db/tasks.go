package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/todo/internal/datefmt"
	"github.com/tgienger/todo/internal/models"
)

const taskColumns = `id, descricao, concluida, COALESCE(data_criacao, ''), COALESCE(data_conclusao, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	var completed int
	if err := s.Scan(&t.ID, &t.Description, &completed, &t.CreatedAt, &t.CompletedAt); err != nil {
		return t, err
	}
	t.Completed = completed != 0
	return t, nil
}

// CreateTask inserts a pending task stamped with the current time.
// The description is stored as sent.
func (db *DB) CreateTask(description string) (*models.Task, error) {
	result, err := db.Exec(`
		INSERT INTO tasks (descricao, concluida, data_criacao) VALUES (?, 0, ?)
	`, description, datefmt.Stamp(db.now()))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns all tasks, newest first
func (db *DB) ListTasks() ([]models.Task, error) {
	rows, err := db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetCompleted marks a task done or reopens it.
// It returns the completion stamp, or "" when the task was reopened.
func (db *DB) SetCompleted(id int64, completed bool) (string, error) {
	var stamp sql.NullString
	flag := 0
	if completed {
		flag = 1
		stamp = sql.NullString{String: datefmt.Stamp(db.now()), Valid: true}
	}

	result, err := db.Exec(`
		UPDATE tasks SET concluida = ?, data_conclusao = ? WHERE id = ?
	`, flag, stamp, id)
	if err != nil {
		return "", fmt.Errorf("update task %d: %w", id, err)
	}
	if err := requireRow(result); err != nil {
		return "", err
	}
	return stamp.String, nil
}

// UpdateDescription replaces a task's description and returns the stored text
func (db *DB) UpdateDescription(id int64, description string) (string, error) {
	description = strings.TrimSpace(description)
	result, err := db.Exec(`UPDATE tasks SET descricao = ? WHERE id = ?`, description, id)
	if err != nil {
		return "", fmt.Errorf("edit task %d: %w", id, err)
	}
	if err := requireRow(result); err != nil {
		return "", err
	}
	return description, nil
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(id int64) error {
	result, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return requireRow(result)
}

// TaskCount returns how many tasks are in the given state
func (db *DB) TaskCount(completed bool) (int, error) {
	flag := 0
	if completed {
		flag = 1
	}
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE concluida = ?`, flag).Scan(&n)
	return n, err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
