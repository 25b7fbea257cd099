package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentorg/internal/types"
)

// CreateTask inserts a new operational task. A missing ID is generated.
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if task.ID == "" {
		task.ID = "task-" + uuid.NewString()[:8]
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, assignee_id, project_task_id, due_date, cancel_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, string(task.Status), task.AssigneeID,
		task.ProjectTaskID, unixOrNil(task.DueDate), task.CancelReason,
		task.CreatedAt.Unix(), task.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a single task by ID
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, assignee_id, project_task_id, due_date, cancel_reason, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	return task, err
}

// ListTasks returns tasks matching the filter, oldest first
func (s *SQLiteStorage) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	query := `
		SELECT id, title, description, status, assignee_id, project_task_id, due_date, cancel_reason, created_at, updated_at
		FROM tasks WHERE 1=1`
	var args []interface{}

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.AssigneeID != "" {
		query += " AND assignee_id = ?"
		args = append(args, filter.AssigneeID)
	}
	if filter.ActiveOnly {
		query += " AND status NOT IN ('done', 'cancelled')"
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus sets a task's status and records the reason when the
// status is cancelled. UpdatedAt always advances, which is what the
// staleness detectors key off.
func (s *SQLiteStorage) UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus, reason string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, cancel_reason = ?, updated_at = ? WHERE id = ?`,
		string(status), reason, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(sc scanner) (*types.Task, error) {
	var (
		task             types.Task
		status           string
		due              sql.NullInt64
		created, updated int64
	)
	err := sc.Scan(&task.ID, &task.Title, &task.Description, &status, &task.AssigneeID,
		&task.ProjectTaskID, &due, &task.CancelReason, &created, &updated)
	if err != nil {
		return nil, err
	}
	task.Status = types.TaskStatus(status)
	task.DueDate = timeFromNull(due)
	task.CreatedAt = time.Unix(created, 0).UTC()
	task.UpdatedAt = time.Unix(updated, 0).UTC()
	return &task, nil
}
