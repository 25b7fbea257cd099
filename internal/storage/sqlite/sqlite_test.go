package sqlite

import (
	"context"
	"testing"
	"time"

	"agentorg/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTaskLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	task := &types.Task{
		Title:      "Write quarterly report",
		Status:     types.StatusTodo,
		AssigneeID: "actor-1",
		DueDate:    &due,
	}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated task ID")
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != task.Title || got.Status != types.StatusTodo {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}

	if err := store.UpdateTaskStatus(ctx, task.ID, types.StatusCancelled, "assignee left"); err != nil {
		t.Fatalf("UpdateTaskStatus failed: %v", err)
	}
	got, err = store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask after update failed: %v", err)
	}
	if got.Status != types.StatusCancelled || got.CancelReason != "assignee left" {
		t.Errorf("status = %s, reason = %q", got.Status, got.CancelReason)
	}
}

func TestListTasksFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	statuses := []types.TaskStatus{types.StatusTodo, types.StatusInProgress, types.StatusDone}
	for i, status := range statuses {
		task := &types.Task{Title: "t", Status: status, AssigneeID: "actor-1"}
		if i == 2 {
			task.AssigneeID = "actor-2"
		}
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	todo := types.StatusTodo
	got, err := store.ListTasks(ctx, types.TaskFilter{Status: &todo})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("status filter returned %d tasks, want 1", len(got))
	}

	got, err = store.ListTasks(ctx, types.TaskFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ActiveOnly returned %d tasks, want 2", len(got))
	}

	got, err = store.ListTasks(ctx, types.TaskFilter{AssigneeID: "actor-2"})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("assignee filter returned %d tasks, want 1", len(got))
	}
}

func TestProjectTaskLinksAndNotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project := &types.Project{Name: "Website relaunch", Status: types.ProjectActive}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	pt := &types.ProjectTask{
		ProjectID:    project.ID,
		Title:        "Landing page",
		Status:       types.StatusInProgress,
		LinkedTaskID: "task-abc",
	}
	if err := store.CreateProjectTask(ctx, pt); err != nil {
		t.Fatalf("CreateProjectTask failed: %v", err)
	}

	got, err := store.GetProjectTaskByTaskLink(ctx, "task-abc")
	if err != nil {
		t.Fatalf("GetProjectTaskByTaskLink failed: %v", err)
	}
	if got == nil || got.ID != pt.ID {
		t.Fatalf("link lookup returned %+v", got)
	}

	// Missing links return nil without error
	got, err = store.GetProjectTaskByTaskLink(ctx, "task-missing")
	if err != nil || got != nil {
		t.Errorf("missing link: got %+v, err %v", got, err)
	}
	got, err = store.GetProjectTaskByDelegationLink(ctx, "")
	if err != nil || got != nil {
		t.Errorf("empty link id: got %+v, err %v", got, err)
	}

	if err := store.AppendProjectTaskNote(ctx, pt.ID, "synced from operations: in_progress → done"); err != nil {
		t.Fatalf("AppendProjectTaskNote failed: %v", err)
	}
	tasks, err := store.ListProjectTasks(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListProjectTasks failed: %v", err)
	}
	if len(tasks) != 1 || len(tasks[0].Notes) != 1 {
		t.Fatalf("expected one task with one note, got %+v", tasks)
	}
}

func TestRecomputeProjectProgress(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project := &types.Project{Name: "Hiring push", Status: types.ProjectActive}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	for _, status := range []types.TaskStatus{types.StatusDone, types.StatusDone, types.StatusInProgress, types.StatusTodo} {
		pt := &types.ProjectTask{ProjectID: project.ID, Title: "x", Status: status}
		if err := store.CreateProjectTask(ctx, pt); err != nil {
			t.Fatalf("CreateProjectTask failed: %v", err)
		}
	}

	progress, err := store.RecomputeProjectProgress(ctx, project.ID)
	if err != nil {
		t.Fatalf("RecomputeProjectProgress failed: %v", err)
	}
	if progress != 0.5 {
		t.Errorf("progress = %g, want 0.5", progress)
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Progress != 0.5 {
		t.Errorf("cached progress = %g, want 0.5", got.Progress)
	}
}

func TestMessagesAndAnnouncements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-time.Hour)
	recent := time.Now().UTC().Add(-time.Minute)
	ackedAt := time.Now().UTC()

	msgs := []*types.Message{
		{ToID: "actor-1", Body: "old unacked", CreatedAt: old},
		{ToID: "actor-2", Body: "recent unacked", CreatedAt: recent},
		{ToID: "actor-3", Body: "acked", CreatedAt: old, AcknowledgedAt: &ackedAt},
	}
	for _, m := range msgs {
		if err := store.SendMessage(ctx, m); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	cutoff := time.Now().UTC().Add(-30 * time.Minute)
	stale, err := store.ListUnacknowledgedMessages(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListUnacknowledgedMessages failed: %v", err)
	}
	if len(stale) != 1 || stale[0].Body != "old unacked" {
		t.Errorf("stale messages = %+v, want the old unacked one", stale)
	}

	if err := store.Announce(ctx, &types.Announcement{AnnouncerID: "hermes", Body: "digest"}); err != nil {
		t.Errorf("Announce failed: %v", err)
	}
}

func TestApprovalsAndKPIs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	req := &types.ApprovalRequest{Kind: types.ApprovalHiring, RequesterID: "actor-1", Subject: "new designer"}
	if err := store.CreateApproval(ctx, req); err != nil {
		t.Fatalf("CreateApproval failed: %v", err)
	}
	pending, err := store.ListPendingApprovals(ctx)
	if err != nil {
		t.Fatalf("ListPendingApprovals failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Status != types.ApprovalPending {
		t.Errorf("pending = %+v", pending)
	}

	kpi := &types.KPI{Name: "Tasks shipped", Target: 100, MetricSource: types.MetricTasksCompleted}
	if err := store.CreateKPI(ctx, kpi); err != nil {
		t.Fatalf("CreateKPI failed: %v", err)
	}
	if err := store.UpdateKPIValue(ctx, kpi.ID, 42); err != nil {
		t.Fatalf("UpdateKPIValue failed: %v", err)
	}
	kpis, err := store.ListKPIs(ctx)
	if err != nil {
		t.Fatalf("ListKPIs failed: %v", err)
	}
	if len(kpis) != 1 || kpis[0].Value != 42 {
		t.Errorf("kpis = %+v", kpis)
	}
}

func TestDelegationFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acked := time.Now().UTC()
	delegations := []*types.DelegatedTask{
		{Title: "a", Status: types.StatusTodo, ToActorID: "actor-1"},
		{Title: "b", Status: types.StatusInProgress, ToActorID: "actor-1", AcknowledgedAt: &acked},
		{Title: "c", Status: types.StatusDone, ToActorID: "actor-2"},
	}
	for _, d := range delegations {
		if err := store.CreateDelegation(ctx, d); err != nil {
			t.Fatalf("CreateDelegation failed: %v", err)
		}
	}

	got, err := store.ListDelegations(ctx, types.DelegationFilter{UnacknowledgedOnly: true, ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListDelegations failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("unacked active = %+v, want delegation a", got)
	}

	got, err = store.ListDelegations(ctx, types.DelegationFilter{ToActorID: "actor-1"})
	if err != nil {
		t.Fatalf("ListDelegations failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("to actor-1 = %d delegations, want 2", len(got))
	}
}
