package types

import (
	"fmt"
	"strings"
	"time"
)

// Project represents a plan-level container of work with a cached
// aggregate progress. Progress is recomputed by the patrol whenever a
// project task changes status or the cache drifts from the completion
// ratio.
type Project struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Status     ProjectStatus `json:"status"`
	Progress   float64       `json:"progress"` // Cached completion ratio, 0.0 to 1.0
	OwnerID    string        `json:"owner_id,omitempty"`
	Milestones []Milestone   `json:"milestones,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid project status: %s", p.Status)
	}
	if p.Progress < 0 || p.Progress > 1 {
		return fmt.Errorf("progress must be between 0.0 and 1.0 (got %g)", p.Progress)
	}
	return nil
}

// ProjectStatus represents a project's lifecycle state
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// IsValid checks if the project status value is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Milestone is a dated checkpoint within a project plan
type Milestone struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	DueDate time.Time `json:"due_date"`
}

// ProjectTask is the project store's view of a unit of work. It may be
// linked to an operational task or a delegated task by foreign key; the
// linked side is authoritative and reconciliation is one-directional
// toward the project task.
type ProjectTask struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	Title              string     `json:"title"`
	Status             TaskStatus `json:"status"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	LinkedTaskID       string     `json:"linked_task_id,omitempty"`
	LinkedDelegationID string     `json:"linked_delegation_id,omitempty"`
	Notes              []string   `json:"notes,omitempty"` // Provenance notes, append-only
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Validate checks if the project task has valid field values
func (pt *ProjectTask) Validate() error {
	if pt.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if strings.TrimSpace(pt.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !pt.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", pt.Status)
	}
	return nil
}

// KPI is a tracked organizational metric. MetricSource declares which
// computed value feeds the KPI; KPIs with an empty source are managed by
// hand and never touched by the refresh detector. This replaces matching
// KPIs to metrics by display-name substring, which broke on rename.
type KPI struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Value        float64   `json:"value"`
	Target       float64   `json:"target"`
	MetricSource string    `json:"metric_source,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Recognized MetricSource values
const (
	MetricTasksCompleted = "tasks_completed"
	MetricResourceSpend  = "resource_spend"
	MetricHeadcount      = "headcount"
)

// Goal ties a set of KPIs to a planning period
type Goal struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Quarter string   `json:"quarter"`
	KPIIDs  []string `json:"kpi_ids,omitempty"`
}
