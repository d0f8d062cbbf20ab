package domain

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inprogress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work inside a project. AssignedTo, when set, must be a
// current member of the owning project.
type Task struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Text       string     `json:"text"`
	Status     TaskStatus `json:"status"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DatesValid reports whether DueDate does not precede StartDate when both
// are set.
func (t *Task) DatesValid() bool {
	if t == nil {
		return false
	}
	if t.StartDate == nil || t.DueDate == nil {
		return true
	}
	return !t.DueDate.Before(*t.StartDate)
}

// Dependency is a directed "blocks" edge between two tasks of the same
// project. The per-project dependency graph stays acyclic at all times.
type Dependency struct {
	ProjectID     string    `json:"project_id"`
	BlockerTaskID string    `json:"blocker_task_id"`
	BlockedTaskID string    `json:"blocked_task_id"`
	CreatedAt     time.Time `json:"created_at"`
}
