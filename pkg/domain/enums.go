package domain

// Health is the Red/Amber/Green rating used across project reporting.
type Health string

// Health ratings.
const (
	HealthGreen Health = "Green"
	HealthAmber Health = "Amber"
	HealthRed   Health = "Red"
)

// Valid reports whether h is one of the known ratings.
func (h Health) Valid() bool {
	switch h {
	case HealthGreen, HealthAmber, HealthRed:
		return true
	}
	return false
}

// Level grades impact, likelihood and priority.
type Level string

// Level values.
const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// RiskStatus tracks the lifecycle of a project risk.
type RiskStatus string

// Risk statuses.
const (
	RiskOpen      RiskStatus = "Open"
	RiskMitigated RiskStatus = "Mitigated"
	RiskClosed    RiskStatus = "Closed"
)

// Valid reports whether s is a known risk status.
func (s RiskStatus) Valid() bool {
	switch s {
	case RiskOpen, RiskMitigated, RiskClosed:
		return true
	}
	return false
}

// IssueStatus tracks the lifecycle of a project issue.
type IssueStatus string

// Issue statuses.
const (
	IssueNew        IssueStatus = "New"
	IssueInProgress IssueStatus = "In Progress"
	IssueResolved   IssueStatus = "Resolved"
)

// Valid reports whether s is a known issue status.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueNew, IssueInProgress, IssueResolved:
		return true
	}
	return false
}

// ActionStatus tracks the lifecycle of a project action.
type ActionStatus string

// Action statuses.
const (
	ActionOpen      ActionStatus = "Open"
	ActionCompleted ActionStatus = "Completed"
	ActionOverdue   ActionStatus = "Overdue"
)

// Valid reports whether s is a known action status.
func (s ActionStatus) Valid() bool {
	switch s {
	case ActionOpen, ActionCompleted, ActionOverdue:
		return true
	}
	return false
}

// DependencyStatus tracks delivery of an external dependency.
type DependencyStatus string

// Dependency statuses.
const (
	DependencyOnTrack DependencyStatus = "On Track"
	DependencyAtRisk  DependencyStatus = "At Risk"
	DependencyDelayed DependencyStatus = "Delayed"
)

// Valid reports whether s is a known dependency status.
func (s DependencyStatus) Valid() bool {
	switch s {
	case DependencyOnTrack, DependencyAtRisk, DependencyDelayed:
		return true
	}
	return false
}

// AssumptionStatus tracks validation of a planning assumption.
type AssumptionStatus string

// Assumption statuses.
const (
	AssumptionValid   AssumptionStatus = "Valid"
	AssumptionInvalid AssumptionStatus = "Invalid"
	AssumptionPending AssumptionStatus = "Pending Validation"
)

// Valid reports whether s is a known assumption status.
func (s AssumptionStatus) Valid() bool {
	switch s {
	case AssumptionValid, AssumptionInvalid, AssumptionPending:
		return true
	}
	return false
}
