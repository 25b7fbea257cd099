package types

import (
	"fmt"
	"strings"
	"time"
)

// Actor represents an employee in the simulated organization
type Actor struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     string      `json:"role"`
	Status   ActorStatus `json:"status"`
	Salary   float64     `json:"salary,omitempty"`
	HiredAt  time.Time   `json:"hired_at"`
	LeftAt   *time.Time  `json:"left_at,omitempty"`
	Manager  string      `json:"manager,omitempty"`
	Announce bool        `json:"announce,omitempty"` // Designated announcer for the passive channel
}

// Validate checks if the actor has valid field values
func (a *Actor) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("invalid actor status: %s", a.Status)
	}
	if a.Salary < 0 {
		return fmt.Errorf("salary cannot be negative")
	}
	return nil
}

// IsActive reports whether the actor can currently be assigned work
func (a *Actor) IsActive() bool {
	return a.Status == ActorActive
}

// ActorStatus represents an actor's employment state
type ActorStatus string

const (
	ActorActive     ActorStatus = "active"
	ActorSuspended  ActorStatus = "suspended"
	ActorTerminated ActorStatus = "terminated"
)

// IsValid checks if the actor status value is valid
func (s ActorStatus) IsValid() bool {
	switch s {
	case ActorActive, ActorSuspended, ActorTerminated:
		return true
	}
	return false
}

// ApprovalRequest is a pending hiring/budget/promotion request in the
// approval queue. The patrol only observes these; approval decisions are
// made elsewhere.
type ApprovalRequest struct {
	ID          string         `json:"id"`
	Kind        ApprovalKind   `json:"kind"`
	RequesterID string         `json:"requester_id"`
	Subject     string         `json:"subject"`
	Status      ApprovalStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
}

// ApprovalKind categorizes what is being requested
type ApprovalKind string

const (
	ApprovalHiring    ApprovalKind = "hiring"
	ApprovalBudget    ApprovalKind = "budget"
	ApprovalPromotion ApprovalKind = "promotion"
)

// IsValid checks if the approval kind is valid
func (k ApprovalKind) IsValid() bool {
	switch k {
	case ApprovalHiring, ApprovalBudget, ApprovalPromotion:
		return true
	}
	return false
}

// ApprovalStatus represents the state of an approval request
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IsValid checks if the approval status is valid
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}
