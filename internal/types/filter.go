package types

// TaskFilter narrows ListTasks results. Zero value matches everything.
type TaskFilter struct {
	// Status filters to a single status when non-nil
	Status *TaskStatus
	// AssigneeID filters to a single assignee when non-empty
	AssigneeID string
	// ActiveOnly excludes terminal statuses (done, cancelled)
	ActiveOnly bool
}

// DelegationFilter narrows ListDelegations results. Zero value matches
// everything.
type DelegationFilter struct {
	// Status filters to a single status when non-nil
	Status *TaskStatus
	// ToActorID filters to a single recipient when non-empty
	ToActorID string
	// ActiveOnly excludes terminal statuses
	ActiveOnly bool
	// UnacknowledgedOnly keeps only hand-offs never acknowledged by the
	// recipient
	UnacknowledgedOnly bool
}
