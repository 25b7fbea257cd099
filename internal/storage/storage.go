package storage

import (
	"context"
	"time"

	"agentorg/internal/storage/sqlite"
	"agentorg/internal/types"
)

// Storage defines the interface for the organization's data stores.
// The operational task store, project store, delegation queue,
// communication channels, approval queue, and KPI tables are independently
// owned; this interface only promises per-call consistency. Callers must
// never assume two calls observe the same snapshot.
type Storage interface {
	// Operational tasks (source of truth for execution status)
	CreateTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus, reason string) error

	// Projects and project tasks (plan-side view, reconciled from ops)
	CreateProject(ctx context.Context, project *types.Project) error
	GetProject(ctx context.Context, id string) (*types.Project, error)
	ListActiveProjects(ctx context.Context) ([]*types.Project, error)
	CreateProjectTask(ctx context.Context, task *types.ProjectTask) error
	ListProjectTasks(ctx context.Context, projectID string) ([]*types.ProjectTask, error)
	GetProjectTaskByTaskLink(ctx context.Context, taskID string) (*types.ProjectTask, error)
	GetProjectTaskByDelegationLink(ctx context.Context, delegationID string) (*types.ProjectTask, error)
	UpdateProjectTaskStatus(ctx context.Context, id string, status types.TaskStatus) error
	AppendProjectTaskNote(ctx context.Context, id, note string) error
	RecomputeProjectProgress(ctx context.Context, projectID string) (float64, error)
	SetProjectProgress(ctx context.Context, projectID string, progress float64) error

	// Delegated hand-offs
	CreateDelegation(ctx context.Context, delegation *types.DelegatedTask) error
	ListDelegations(ctx context.Context, filter types.DelegationFilter) ([]*types.DelegatedTask, error)

	// Inter-actor messages and passive announcements
	SendMessage(ctx context.Context, msg *types.Message) error
	ListUnacknowledgedMessages(ctx context.Context, olderThan time.Time) ([]*types.Message, error)
	Announce(ctx context.Context, ann *types.Announcement) error

	// Approval queue
	CreateApproval(ctx context.Context, req *types.ApprovalRequest) error
	ListPendingApprovals(ctx context.Context) ([]*types.ApprovalRequest, error)

	// KPIs and goals
	CreateKPI(ctx context.Context, kpi *types.KPI) error
	ListKPIs(ctx context.Context) ([]*types.KPI, error)
	UpdateKPIValue(ctx context.Context, id string, value float64) error
	ListGoals(ctx context.Context) ([]*types.Goal, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".agentorg/org.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".agentorg/org.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".agentorg/org.db"
	}

	return sqlite.New(cfg.Path)
}
