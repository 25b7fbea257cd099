package types

import (
	"strings"
	"testing"
	"time"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name:    "valid task",
			task:    Task{Title: "Draft onboarding doc", Status: StatusTodo},
			wantErr: false,
		},
		{
			name:    "empty title",
			task:    Task{Title: "  ", Status: StatusTodo},
			wantErr: true,
		},
		{
			name:    "title too long",
			task:    Task{Title: strings.Repeat("x", 501), Status: StatusTodo},
			wantErr: true,
		},
		{
			name:    "invalid status",
			task:    Task{Title: "ok", Status: TaskStatus("paused")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	terminal := []TaskStatus{StatusDone, StatusCancelled}
	active := []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusBlocked}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false, want true", s)
		}
		if s.IsActive() {
			t.Errorf("%s.IsActive() = true, want false", s)
		}
	}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true, want false", s)
		}
		if !s.IsActive() {
			t.Errorf("%s.IsActive() = false, want true", s)
		}
	}

	if TaskStatus("bogus").IsActive() {
		t.Error("invalid status should not be active")
	}
}

func TestActorValidate(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		wantErr bool
	}{
		{
			name:    "valid actor",
			actor:   Actor{Name: "Mira Chen", Role: "engineer", Status: ActorActive, HiredAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "missing name",
			actor:   Actor{Status: ActorActive},
			wantErr: true,
		},
		{
			name:    "invalid status",
			actor:   Actor{Name: "Mira Chen", Status: ActorStatus("fired")},
			wantErr: true,
		},
		{
			name:    "negative salary",
			actor:   Actor{Name: "Mira Chen", Status: ActorActive, Salary: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.actor.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestActorIsActive(t *testing.T) {
	if !(&Actor{Name: "a", Status: ActorActive}).IsActive() {
		t.Error("active actor should be active")
	}
	if (&Actor{Name: "a", Status: ActorSuspended}).IsActive() {
		t.Error("suspended actor should not be active")
	}
	if (&Actor{Name: "a", Status: ActorTerminated}).IsActive() {
		t.Error("terminated actor should not be active")
	}
}

func TestProjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr bool
	}{
		{
			name:    "valid project",
			project: Project{Name: "Q3 launch", Status: ProjectActive, Progress: 0.5},
			wantErr: false,
		},
		{
			name:    "progress out of range",
			project: Project{Name: "Q3 launch", Status: ProjectActive, Progress: 1.5},
			wantErr: true,
		},
		{
			name:    "missing name",
			project: Project{Status: ProjectActive},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProjectTaskValidate(t *testing.T) {
	pt := ProjectTask{ProjectID: "p1", Title: "Ship landing page", Status: StatusInProgress}
	if err := pt.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	pt.ProjectID = ""
	if err := pt.Validate(); err == nil {
		t.Error("Validate() expected error for missing project_id")
	}
}

func TestApprovalKindsAndStatuses(t *testing.T) {
	for _, k := range []ApprovalKind{ApprovalHiring, ApprovalBudget, ApprovalPromotion} {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if ApprovalKind("vacation").IsValid() {
		t.Error("unknown approval kind should be invalid")
	}
	for _, s := range []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalRejected} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
}
