package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentorg/internal/types"
)

// CreateProject inserts a new project
func (s *SQLiteStorage) CreateProject(ctx context.Context, project *types.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	if project.ID == "" {
		project.ID = "proj-" + uuid.NewString()[:8]
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = project.CreatedAt
	}

	milestones, err := json.Marshal(project.Milestones)
	if err != nil {
		return fmt.Errorf("failed to serialize milestones: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, status, progress, owner_id, milestones_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, string(project.Status), project.Progress,
		project.OwnerID, string(milestones), project.CreatedAt.Unix(), project.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProject retrieves a single project by ID
func (s *SQLiteStorage) GetProject(ctx context.Context, id string) (*types.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, status, progress, owner_id, milestones_json, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	return project, err
}

// ListActiveProjects returns all projects in active status
func (s *SQLiteStorage) ListActiveProjects(ctx context.Context) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, status, progress, owner_id, milestones_json, created_at, updated_at
		FROM projects WHERE status = 'active' ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// CreateProjectTask inserts a new project-side task
func (s *SQLiteStorage) CreateProjectTask(ctx context.Context, task *types.ProjectTask) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid project task: %w", err)
	}
	if task.ID == "" {
		task.ID = "ptask-" + uuid.NewString()[:8]
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now().UTC()
	}

	notes, err := json.Marshal(task.Notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO project_tasks (id, project_id, title, status, due_date, linked_task_id, linked_delegation_id, notes_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.Title, string(task.Status), unixOrNil(task.DueDate),
		task.LinkedTaskID, task.LinkedDelegationID, string(notes), task.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create project task: %w", err)
	}
	return nil
}

// ListProjectTasks returns all tasks for a project
func (s *SQLiteStorage) ListProjectTasks(ctx context.Context, projectID string) ([]*types.ProjectTask, error) {
	rows, err := s.db.QueryContext(ctx, projectTaskSelect+` WHERE project_id = ? ORDER BY id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}
	defer rows.Close()
	return collectProjectTasks(rows)
}

// GetProjectTaskByTaskLink looks up the project task linked to an
// operational task, if any. Returns (nil, nil) when no link exists.
func (s *SQLiteStorage) GetProjectTaskByTaskLink(ctx context.Context, taskID string) (*types.ProjectTask, error) {
	return s.getProjectTaskBy(ctx, "linked_task_id", taskID)
}

// GetProjectTaskByDelegationLink looks up the project task linked to a
// delegated task, if any. Returns (nil, nil) when no link exists.
func (s *SQLiteStorage) GetProjectTaskByDelegationLink(ctx context.Context, delegationID string) (*types.ProjectTask, error) {
	return s.getProjectTaskBy(ctx, "linked_delegation_id", delegationID)
}

func (s *SQLiteStorage) getProjectTaskBy(ctx context.Context, column, value string) (*types.ProjectTask, error) {
	if value == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, projectTaskSelect+` WHERE `+column+` = ?`, value)
	task, err := scanProjectTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return task, err
}

// UpdateProjectTaskStatus sets a project task's status
func (s *SQLiteStorage) UpdateProjectTaskStatus(ctx context.Context, id string, status types.TaskStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE project_tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update project task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project task not found: %s", id)
	}
	return nil
}

// AppendProjectTaskNote appends a provenance note to a project task
func (s *SQLiteStorage) AppendProjectTaskNote(ctx context.Context, id, note string) error {
	var notesJSON string
	err := s.db.QueryRowContext(ctx, `SELECT notes_json FROM project_tasks WHERE id = ?`, id).Scan(&notesJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("project task not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	var notes []string
	if err := json.Unmarshal([]byte(notesJSON), &notes); err != nil {
		return fmt.Errorf("failed to parse notes: %w", err)
	}
	notes = append(notes, note)

	updated, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE project_tasks SET notes_json = ?, updated_at = ? WHERE id = ?`,
		string(updated), time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return nil
}

// RecomputeProjectProgress recalculates a project's cached progress as the
// ratio of done project tasks to total, writes it back, and returns it.
// Projects with no tasks report zero progress.
func (s *SQLiteStorage) RecomputeProjectProgress(ctx context.Context, projectID string) (float64, error) {
	var total, done int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0)
		FROM project_tasks WHERE project_id = ?`, projectID).Scan(&total, &done)
	if err != nil {
		return 0, fmt.Errorf("failed to count project tasks: %w", err)
	}

	progress := 0.0
	if total > 0 {
		progress = float64(done) / float64(total)
	}

	if err := s.SetProjectProgress(ctx, projectID, progress); err != nil {
		return 0, err
	}
	return progress, nil
}

// SetProjectProgress writes a project's cached progress
func (s *SQLiteStorage) SetProjectProgress(ctx context.Context, projectID string, progress float64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET progress = ?, updated_at = ? WHERE id = ?`,
		progress, time.Now().UTC().Unix(), projectID)
	if err != nil {
		return fmt.Errorf("failed to set project progress: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("project not found: %s", projectID)
	}
	return nil
}

const projectTaskSelect = `
	SELECT id, project_id, title, status, due_date, linked_task_id, linked_delegation_id, notes_json, updated_at
	FROM project_tasks`

func scanProject(sc scanner) (*types.Project, error) {
	var (
		project          types.Project
		status           string
		milestonesJSON   string
		created, updated int64
	)
	err := sc.Scan(&project.ID, &project.Name, &status, &project.Progress,
		&project.OwnerID, &milestonesJSON, &created, &updated)
	if err != nil {
		return nil, err
	}
	project.Status = types.ProjectStatus(status)
	project.CreatedAt = time.Unix(created, 0).UTC()
	project.UpdatedAt = time.Unix(updated, 0).UTC()
	if err := json.Unmarshal([]byte(milestonesJSON), &project.Milestones); err != nil {
		return nil, fmt.Errorf("failed to parse milestones: %w", err)
	}
	return &project, nil
}

func scanProjectTask(sc scanner) (*types.ProjectTask, error) {
	var (
		task      types.ProjectTask
		status    string
		due       sql.NullInt64
		notesJSON string
		updated   int64
	)
	err := sc.Scan(&task.ID, &task.ProjectID, &task.Title, &status, &due,
		&task.LinkedTaskID, &task.LinkedDelegationID, &notesJSON, &updated)
	if err != nil {
		return nil, err
	}
	task.Status = types.TaskStatus(status)
	task.DueDate = timeFromNull(due)
	task.UpdatedAt = time.Unix(updated, 0).UTC()
	if err := json.Unmarshal([]byte(notesJSON), &task.Notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes: %w", err)
	}
	return &task, nil
}

func collectProjectTasks(rows *sql.Rows) ([]*types.ProjectTask, error) {
	var tasks []*types.ProjectTask
	for rows.Next() {
		task, err := scanProjectTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
