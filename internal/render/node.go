package render

// Node is the visual representation of one task
type Node struct {
	ID          int64
	Description string
	DateLabel   string
	// Completed is the "completed" visual marker; the toggle control reads it
	Completed bool
	// CreatedAt is the creation stamp captured when the node was rendered
	CreatedAt string

	DescriptionHidden bool
	DateHidden        bool
	ActionsHidden     bool

	Editor *Editor

	container *Container
}

// Editor is an inline description editor opened on a node
type Editor struct {
	// Value is what the input currently holds
	Value string
	// Default is the description when the editor was opened
	Default string

	nodeID int64
}

// Save is the event fired by the editor's save trigger or Enter
func (e *Editor) Save() EditSaved {
	return EditSaved{ID: e.nodeID}
}

// Checked is the toggle control state. It is derived from the confirmed
// Completed marker, so a failed status change leaves nothing to reconcile.
func (n *Node) Checked() bool {
	return n.Completed
}

// Container returns the container holding the node, nil once removed
func (n *Node) Container() *Container {
	return n.container
}

// Toggle is the event fired by the toggle control. It asks for the opposite
// of the confirmed state and does not change the node.
func (n *Node) Toggle() StatusToggled {
	return StatusToggled{ID: n.ID, Completed: !n.Completed, CreatedAt: n.CreatedAt}
}

// Edit is the event fired by the edit trigger
func (n *Node) Edit() EditRequested {
	return EditRequested{ID: n.ID}
}

// Delete is the event fired by the delete trigger once the user answered
// the confirmation prompt
func (n *Node) Delete(confirmed bool) DeleteRequested {
	return DeleteRequested{ID: n.ID, Confirmed: confirmed}
}
