// Package render owns the in-memory view of the task list: the pending and
// completed containers, the node of each task, the counters and the inline
// editors. It never talks to the backend; interactions on a node are
// returned as Event values for the caller to dispatch.
package render

import (
	"errors"
	"fmt"

	"github.com/tgienger/todo/internal/datefmt"
	"github.com/tgienger/todo/internal/models"
)

var (
	// ErrNotEditing is returned when leaving edit mode on a node that has no editor
	ErrNotEditing = errors.New("node is not in edit mode")
	// ErrNodeNotFound is returned when a node is not on the board
	ErrNodeNotFound = errors.New("node not found")
)

const (
	createdPrefix   = "Criada em: "
	completedPrefix = "Concluída em: "
)

// CreatedLabel is the date label of a pending task
func CreatedLabel(createdAt string) string {
	return createdPrefix + datefmt.Format(createdAt)
}

// CompletedLabel is the date label of a completed task
func CompletedLabel(completedAt string) string {
	return completedPrefix + datefmt.Format(completedAt)
}

// DateLabel picks the label a freshly rendered task shows
func DateLabel(t models.Task) string {
	if t.Completed && t.CompletedAt != "" {
		return CompletedLabel(t.CompletedAt)
	}
	return CreatedLabel(t.CreatedAt)
}

// Container is one of the two task lists
type Container struct {
	Title   string
	Counter string

	completed bool
	nodes     []*Node
}

// Completed reports whether this container holds completed tasks
func (c *Container) Completed() bool {
	return c.completed
}

// Nodes returns the container's nodes front to back
func (c *Container) Nodes() []*Node {
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Len is the live number of nodes in the container
func (c *Container) Len() int {
	return len(c.nodes)
}

// IDs lists task ids front to back
func (c *Container) IDs() []int64 {
	ids := make([]int64, len(c.nodes))
	for i, n := range c.nodes {
		ids[i] = n.ID
	}
	return ids
}

func (c *Container) prepend(n *Node) {
	c.nodes = append([]*Node{n}, c.nodes...)
	n.container = c
}

func (c *Container) detach(n *Node) {
	for i, existing := range c.nodes {
		if existing == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			break
		}
	}
	n.container = nil
}

// Board is the view handle: both containers and their counters.
// It is owned by one controller and only mutated through its methods.
type Board struct {
	Pending   *Container
	Completed *Container
}

// NewBoard creates an empty board with zeroed counters
func NewBoard() *Board {
	b := &Board{
		Pending:   &Container{Title: "Pendentes"},
		Completed: &Container{Title: "Concluídas", completed: true},
	}
	b.UpdateCounters()
	return b
}

// Container returns the container matching a completed flag
func (b *Board) Container(completed bool) *Container {
	if completed {
		return b.Completed
	}
	return b.Pending
}

// Node finds the node of a task, or nil
func (b *Board) Node(id int64) *Node {
	for _, c := range []*Container{b.Pending, b.Completed} {
		for _, n := range c.nodes {
			if n.ID == id {
				return n
			}
		}
	}
	return nil
}

// Render builds the node of a task and inserts it at the front of target.
// A node already showing the same task is replaced.
func (b *Board) Render(t models.Task, target *Container) *Node {
	if old := b.Node(t.ID); old != nil {
		old.container.detach(old)
	}

	n := &Node{
		ID:          t.ID,
		Description: t.Description,
		DateLabel:   DateLabel(t),
		Completed:   bool(t.Completed),
		CreatedAt:   t.CreatedAt,
	}
	target.prepend(n)
	return n
}

// Move relabels a node and relocates it to the front of the container
// matching completed. It reports false when the task has no node.
func (b *Board) Move(id int64, completed bool, dateLabel string) bool {
	n := b.Node(id)
	if n == nil {
		return false
	}
	n.DateLabel = dateLabel
	n.Completed = completed
	n.container.detach(n)
	b.Container(completed).prepend(n)
	return true
}

// Remove detaches a task's node. It reports false when there was none.
func (b *Board) Remove(id int64) bool {
	n := b.Node(id)
	if n == nil {
		return false
	}
	n.container.detach(n)
	return true
}

// Clear empties both containers without touching the counters
func (b *Board) Clear() {
	for _, c := range []*Container{b.Pending, b.Completed} {
		for _, n := range c.nodes {
			n.container = nil
		}
		c.nodes = nil
	}
}

// UpdateCounters recomputes both counters from live container membership
func (b *Board) UpdateCounters() {
	for _, c := range []*Container{b.Pending, b.Completed} {
		c.Counter = fmt.Sprintf("(%d)", len(c.nodes))
	}
}

// Rows lists every node, pending first, each container front to back
func (b *Board) Rows() []*Node {
	rows := make([]*Node, 0, b.Pending.Len()+b.Completed.Len())
	rows = append(rows, b.Pending.nodes...)
	return append(rows, b.Completed.nodes...)
}

// Editing lists nodes that currently have an inline editor open
func (b *Board) Editing() []*Node {
	var out []*Node
	for _, n := range b.Rows() {
		if n.Editor != nil {
			out = append(out, n)
		}
	}
	return out
}

// EnterEdit hides the node's description, date and actions and opens an
// inline editor pre-filled with the current description. Other nodes may
// stay in edit mode. Entering twice returns the editor already open.
func (b *Board) EnterEdit(n *Node) (*Editor, error) {
	if n == nil || n.container == nil {
		return nil, ErrNodeNotFound
	}
	if n.Editor != nil {
		return n.Editor, nil
	}
	n.DescriptionHidden = true
	n.DateHidden = true
	n.ActionsHidden = true
	n.Editor = &Editor{
		Value:   n.Description,
		Default: n.Description,
		nodeID:  n.ID,
	}
	return n.Editor, nil
}

// ExitEdit removes the inline editor and shows description (set to
// description), date and actions again.
func (b *Board) ExitEdit(n *Node, description string) error {
	if n == nil {
		return ErrNodeNotFound
	}
	if n.Editor == nil {
		return ErrNotEditing
	}
	n.Editor = nil
	n.Description = description
	n.DescriptionHidden = false
	n.DateHidden = false
	n.ActionsHidden = false
	return nil
}
