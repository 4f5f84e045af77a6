// Package domain defines the dashboard entities, snapshot value, and rule
// evaluation primitives used by ocmhub.
package domain

import (
	"fmt"
	"strings"
)

// EntityType identifies the type of record stored in the entity store.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityHomeModule identifies a home navigation tile.
	EntityHomeModule EntityType = "home_module"
	// EntityWorkbenchGroup identifies a workbench group.
	EntityWorkbenchGroup EntityType = "workbench_group"
	// EntityWorkbenchItem identifies a project tile inside a workbench group.
	EntityWorkbenchItem EntityType = "workbench_item"
	// EntityProject identifies a project details aggregate.
	EntityProject EntityType = "project"
	// EntityBudget identifies the budget totals of a project.
	EntityBudget         EntityType = "budget"
	EntityRAGEntry       EntityType = "rag_entry"
	EntityQuickLink      EntityType = "quick_link"
	EntityAnnouncement   EntityType = "announcement"
	EntityDocument       EntityType = "document"
	EntityRisk           EntityType = "risk"
	EntityIssue          EntityType = "issue"
	EntityAction         EntityType = "action"
	EntityDependency     EntityType = "dependency"
	EntityAssumption     EntityType = "assumption"
	EntityLesson         EntityType = "lesson"
	EntityStatusUpdate   EntityType = "status_update"
	EntityBudgetCategory EntityType = "budget_category"
	EntityResource       EntityType = "resource"
	EntityAssetCategory  EntityType = "asset_category"
	EntityAssetLink      EntityType = "asset_link"
	EntityAssetDocument  EntityType = "asset_document"
	EntityKeyUpdate      EntityType = "key_update"
	// EntityOCMStep identifies an OCM workbench setup step.
	EntityOCMStep        EntityType = "ocm_step"
	EntityOCMTopic       EntityType = "ocm_topic"
	EntityOCMItem        EntityType = "ocm_item"
	EntityOCMSidebarLink EntityType = "ocm_sidebar_link"
	EntityOCMImageCard   EntityType = "ocm_image_card"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Change describes a mutation applied to an entity. Path holds the key chain
// addressing the entity, outermost parent first and the entity id last.
type Change struct {
	Entity EntityType
	Action Action
	Path   []string
	Before any
	After  any
}

// Subject joins the change path into a slash separated address.
func (c Change) Subject() string {
	return strings.Join(c.Path, "/")
}

// Action indicates the type of modification performed.
type Action string

// Supported change actions.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from rule evaluation.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether any violation blocks the commit.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rules: %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}
