package patrol

import (
	"context"
	"fmt"
	"math"
	"time"

	"agentorg/internal/providers"
	"agentorg/internal/types"
)

// In-memory collaborators for exercising the patrol without SQLite.
// They implement the same filter semantics as the real stores but keep
// everything in slices so tests can inspect mutations directly.

type mockTaskStore struct {
	tasks []*types.Task
	kpis  []*types.KPI
	goals []*types.Goal

	cancelled map[string]string // Task ID → recorded cancel reason
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{cancelled: make(map[string]string)}
}

func (m *mockTaskStore) ListTasks(_ context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	var out []*types.Task
	for _, t := range m.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.ActiveOnly && !t.Status.IsActive() {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTaskStore) UpdateTaskStatus(_ context.Context, id string, status types.TaskStatus, reason string) error {
	for _, t := range m.tasks {
		if t.ID == id {
			t.Status = status
			if status == types.StatusCancelled {
				t.CancelReason = reason
				m.cancelled[id] = reason
			}
			return nil
		}
	}
	return fmt.Errorf("task %s not found", id)
}

func (m *mockTaskStore) ListKPIs(_ context.Context) ([]*types.KPI, error) {
	return m.kpis, nil
}

func (m *mockTaskStore) UpdateKPIValue(_ context.Context, id string, value float64) error {
	for _, k := range m.kpis {
		if k.ID == id {
			k.Value = value
			return nil
		}
	}
	return fmt.Errorf("kpi %s not found", id)
}

func (m *mockTaskStore) ListGoals(_ context.Context) ([]*types.Goal, error) {
	return m.goals, nil
}

type mockProjectStore struct {
	projects     []*types.Project
	projectTasks []*types.ProjectTask
}

func (m *mockProjectStore) ListActiveProjects(_ context.Context) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range m.projects {
		if p.Status == types.ProjectActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectStore) ListProjectTasks(_ context.Context, projectID string) ([]*types.ProjectTask, error) {
	var out []*types.ProjectTask
	for _, pt := range m.projectTasks {
		if pt.ProjectID == projectID {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (m *mockProjectStore) GetProjectTaskByTaskLink(_ context.Context, taskID string) (*types.ProjectTask, error) {
	for _, pt := range m.projectTasks {
		if pt.LinkedTaskID == taskID {
			return pt, nil
		}
	}
	return nil, nil
}

func (m *mockProjectStore) GetProjectTaskByDelegationLink(_ context.Context, delegationID string) (*types.ProjectTask, error) {
	for _, pt := range m.projectTasks {
		if pt.LinkedDelegationID == delegationID {
			return pt, nil
		}
	}
	return nil, nil
}

func (m *mockProjectStore) UpdateProjectTaskStatus(_ context.Context, id string, status types.TaskStatus) error {
	for _, pt := range m.projectTasks {
		if pt.ID == id {
			pt.Status = status
			return nil
		}
	}
	return fmt.Errorf("project task %s not found", id)
}

func (m *mockProjectStore) AppendProjectTaskNote(_ context.Context, id, note string) error {
	for _, pt := range m.projectTasks {
		if pt.ID == id {
			pt.Notes = append(pt.Notes, note)
			return nil
		}
	}
	return fmt.Errorf("project task %s not found", id)
}

func (m *mockProjectStore) RecomputeProjectProgress(_ context.Context, projectID string) (float64, error) {
	total, done := 0, 0
	for _, pt := range m.projectTasks {
		if pt.ProjectID != projectID {
			continue
		}
		total++
		if pt.Status == types.StatusDone {
			done++
		}
	}
	progress := 0.0
	if total > 0 {
		progress = float64(done) / float64(total)
	}
	for _, p := range m.projects {
		if p.ID == projectID {
			p.Progress = progress
			return progress, nil
		}
	}
	return 0, fmt.Errorf("project %s not found", projectID)
}

func (m *mockProjectStore) SetProjectProgress(_ context.Context, projectID string, progress float64) error {
	for _, p := range m.projects {
		if p.ID == projectID {
			p.Progress = progress
			return nil
		}
	}
	return fmt.Errorf("project %s not found", projectID)
}

type mockComms struct {
	sent        []*types.Message
	unacked     []*types.Message
	delegations []*types.DelegatedTask
}

func (m *mockComms) SendMessage(_ context.Context, msg *types.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockComms) ListUnacknowledgedMessages(_ context.Context, olderThan time.Time) ([]*types.Message, error) {
	var out []*types.Message
	for _, msg := range m.unacked {
		if msg.AcknowledgedAt == nil && !msg.CreatedAt.After(olderThan) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockComms) ListDelegations(_ context.Context, filter types.DelegationFilter) ([]*types.DelegatedTask, error) {
	var out []*types.DelegatedTask
	for _, d := range m.delegations {
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.ToActorID != "" && d.ToActorID != filter.ToActorID {
			continue
		}
		if filter.ActiveOnly && !d.Status.IsActive() {
			continue
		}
		if filter.UnacknowledgedOnly && d.AcknowledgedAt != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type mockNotifier struct {
	announced []*types.Announcement
}

func (m *mockNotifier) Announce(_ context.Context, ann *types.Announcement) error {
	m.announced = append(m.announced, ann)
	return nil
}

type mockApprovals struct {
	pending []*types.ApprovalRequest
}

func (m *mockApprovals) ListPendingApprovals(_ context.Context) ([]*types.ApprovalRequest, error) {
	return m.pending, nil
}

type mockProber struct {
	results []providers.ProbeResult
}

func (m *mockProber) ProbeAll(_ context.Context) []providers.ProbeResult {
	return m.results
}

type mockMemory struct {
	calls int
}

func (m *mockMemory) Maintain(_ context.Context, _ time.Time) error {
	m.calls++
	return nil
}

// findingsOfKind filters a report to one kind
func findingsOfKind(report *PassReport, kind FindingKind) []Finding {
	var out []Finding
	for _, f := range report.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// almostEqual compares floats within a small tolerance
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
