package render

// Event is a user intent raised by the view. The set is closed.
type Event interface {
	event()
}

// TaskCreated asks to add a task from the new-task input
type TaskCreated struct{}

// StatusToggled asks to move a task to Completed (or back to pending).
// CreatedAt is the stamp captured at render time.
type StatusToggled struct {
	ID        int64
	Completed bool
	CreatedAt string
}

// DeleteRequested asks to delete a task; nothing happens unless Confirmed
type DeleteRequested struct {
	ID        int64
	Confirmed bool
}

// EditRequested asks to open the inline editor on a task
type EditRequested struct {
	ID int64
}

// EditSaved asks to persist the value of a task's inline editor
type EditSaved struct {
	ID int64
}

func (TaskCreated) event()     {}
func (StatusToggled) event()   {}
func (DeleteRequested) event() {}
func (EditRequested) event()   {}
func (EditSaved) event()       {}
