package types

import (
	"fmt"
	"strings"
	"time"
)

// Task represents an operational work item owned by the task store.
// Operational tasks are the source of truth for execution status; the
// project store only mirrors them through reconciliation.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        TaskStatus `json:"status"`
	AssigneeID    string     `json:"assignee_id,omitempty"`
	ProjectTaskID string     `json:"project_task_id,omitempty"` // Link into the project store (optional)
	DueDate       *time.Time `json:"due_date,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	return nil
}

// TaskStatus represents the current state of a work item
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
	StatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status value is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone, StatusBlocked, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the work item's lifecycle.
// Terminal items are excluded from nudging, deadline checks, and repair.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// IsActive reports whether the item still represents open work
func (s TaskStatus) IsActive() bool {
	return s.IsValid() && !s.IsTerminal()
}

// DelegatedTask represents a hand-off from one actor to another.
// Like operational tasks, delegations are authoritative over any linked
// project task.
type DelegatedTask struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         TaskStatus `json:"status"`
	FromActorID    string     `json:"from_actor_id"`
	ToActorID      string     `json:"to_actor_id"`
	ProjectTaskID  string     `json:"project_task_id,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Validate checks if the delegated task has valid field values
func (d *DelegatedTask) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if d.ToActorID == "" {
		return fmt.Errorf("to_actor_id is required")
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", d.Status)
	}
	return nil
}

// Message is a directed message between two actors
type Message struct {
	ID             string     `json:"id"`
	FromID         string     `json:"from_id"`
	ToID           string     `json:"to_id"`
	Body           string     `json:"body"`
	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// Announcement is a message on the passive notification channel,
// attributed to a designated announcer actor
type Announcement struct {
	ID          string    `json:"id"`
	AnnouncerID string    `json:"announcer_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
