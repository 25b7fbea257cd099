package patrol

// FindingKind classifies a detected condition
type FindingKind string

const (
	KindNudge               FindingKind = "nudge"
	KindDeadlineOverdue     FindingKind = "deadline-overdue"
	KindDeadlineApproaching FindingKind = "deadline-approaching"
	KindKPIDelta            FindingKind = "kpi-delta"
	KindBacklog             FindingKind = "backlog"
	KindApprovalStale       FindingKind = "approval-stale"
	KindInactiveActor       FindingKind = "inactive-actor"
	KindIntegrityIssue      FindingKind = "integrity-issue"
	KindResourceForecast    FindingKind = "resource-forecast"
	KindHealthChange        FindingKind = "health-change"
)

// Severity ranks how urgently a finding needs attention
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding is the unit of detection output. Findings are ephemeral:
// produced and consumed within a single pass, never persisted.
type Finding struct {
	Kind     FindingKind
	Severity Severity
	Subject  string // Work item or actor ID
	Detail   string // Free-form description for rendering
}
