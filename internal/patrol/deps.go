package patrol

import (
	"context"
	"time"

	"agentorg/internal/ledger"
	"agentorg/internal/providers"
	"agentorg/internal/types"
)

// The patrol is constructed with explicit references to its collaborators
// and calls only these narrow interfaces. Every collaborator except the
// task store is optional: a detector whose collaborator is absent skips
// its check instead of failing the pass.

// TaskStore is the operational task store — the source of truth for
// execution status — plus the KPI and goal tables it owns.
type TaskStore interface {
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status types.TaskStatus, reason string) error
	ListKPIs(ctx context.Context) ([]*types.KPI, error)
	UpdateKPIValue(ctx context.Context, id string, value float64) error
	ListGoals(ctx context.Context) ([]*types.Goal, error)
}

// ProjectStore is the plan-side store reconciled from operations
type ProjectStore interface {
	ListActiveProjects(ctx context.Context) ([]*types.Project, error)
	ListProjectTasks(ctx context.Context, projectID string) ([]*types.ProjectTask, error)
	GetProjectTaskByTaskLink(ctx context.Context, taskID string) (*types.ProjectTask, error)
	GetProjectTaskByDelegationLink(ctx context.Context, delegationID string) (*types.ProjectTask, error)
	UpdateProjectTaskStatus(ctx context.Context, id string, status types.TaskStatus) error
	AppendProjectTaskNote(ctx context.Context, id, note string) error
	RecomputeProjectProgress(ctx context.Context, projectID string) (float64, error)
	SetProjectProgress(ctx context.Context, projectID string, progress float64) error
}

// Comms is the inter-actor communication channel
type Comms interface {
	SendMessage(ctx context.Context, msg *types.Message) error
	ListUnacknowledgedMessages(ctx context.Context, olderThan time.Time) ([]*types.Message, error)
	ListDelegations(ctx context.Context, filter types.DelegationFilter) ([]*types.DelegatedTask, error)
}

// Notifier is the passive notification channel
type Notifier interface {
	Announce(ctx context.Context, ann *types.Announcement) error
}

// ApprovalQueue exposes pending hiring/budget/promotion requests
type ApprovalQueue interface {
	ListPendingApprovals(ctx context.Context) ([]*types.ApprovalRequest, error)
}

// ActorDirectory exposes actor records and their employment status
type ActorDirectory interface {
	Get(id string) *types.Actor
	List() []*types.Actor
}

// UsageLedger exposes resource consumption summaries and the configured
// allowance
type UsageLedger interface {
	Allowance() ledger.Allowance
	TotalSince(since time.Time) ledger.Summary
	ActorSummary(actorID string, since time.Time) ledger.Summary
	LastUsedAt(actorID string) time.Time
}

// HealthProber probes configured LLM providers for reachability
type HealthProber interface {
	ProbeAll(ctx context.Context) []providers.ProbeResult
}

// MemoryMaintainer triggers periodic upkeep of the long-term memory
// subsystem. Failures are logged only.
type MemoryMaintainer interface {
	Maintain(ctx context.Context, now time.Time) error
}

// Deps holds the collaborators for creating a Patrol
type Deps struct {
	Tasks     TaskStore        // Required
	Projects  ProjectStore     // Optional
	Comms     Comms            // Optional; directive dispatch disabled when absent
	Notifier  Notifier         // Optional; digests disabled when absent
	Approvals ApprovalQueue    // Optional
	Directory ActorDirectory   // Optional
	Usage     UsageLedger      // Optional
	Prober    HealthProber     // Optional
	Memory    MemoryMaintainer // Optional

	Config *Config // Uses DefaultConfig when nil
}
