package domain

import (
	"context"
	"fmt"
	"testing"
)

func TestResultMergeAndBlocking(t *testing.T) {
	var result Result
	result.Merge(Result{Violations: []Violation{{Rule: "warn", Severity: SeverityWarn}}})
	if result.HasBlocking() {
		t.Fatalf("expected no blocking violations")
	}
	result.Merge(Result{Violations: []Violation{{Rule: "block", Severity: SeverityBlock}}})
	if !result.HasBlocking() {
		t.Fatalf("expected blocking violation")
	}
	err := RuleViolationError{Result: result}
	if err.Error() != "transaction blocked by rules: block: " {
		t.Fatalf("unexpected error string %q", err.Error())
	}
	if !IsRuleViolation(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("expected wrapped rule violation to be detected")
	}
}

func TestResultMergeEmptyInput(t *testing.T) {
	original := Result{Violations: []Violation{{Rule: "existing", Severity: SeverityWarn}}}
	original.Merge(Result{})
	if len(original.Violations) != 1 || original.Violations[0].Rule != "existing" {
		t.Fatalf("expected original violations to remain, got %+v", original.Violations)
	}
}

func TestRulesEngineEvaluate(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{"warn"})
	res, err := engine.Evaluate(context.Background(), emptyView{}, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected violation")
	}
}

type staticRule struct{ name string }

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	return Result{Violations: []Violation{{Rule: r.name, Severity: SeverityWarn}}}, nil
}

type emptyView struct{}

func (emptyView) ListHomeModules() []HomeModule                    { return nil }
func (emptyView) ListWorkbenchGroups() []WorkbenchGroup            { return nil }
func (emptyView) ListProjects() []ProjectDetails                   { return nil }
func (emptyView) ListOCMSteps() []OCMSetupStep                     { return nil }
func (emptyView) FindHomeModule(string) (HomeModule, bool)         { return HomeModule{}, false }
func (emptyView) FindWorkbenchGroup(string) (WorkbenchGroup, bool) { return WorkbenchGroup{}, false }
func (emptyView) FindProject(string) (ProjectDetails, bool)        { return ProjectDetails{}, false }
func (emptyView) FindOCMStep(string) (OCMSetupStep, bool)          { return OCMSetupStep{}, false }
func (emptyView) FindWorkbenchItem(string) (WorkbenchItem, string, bool) {
	return WorkbenchItem{}, "", false
}

func TestRulesEngineEvaluateError(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(errorRule{})
	if _, err := engine.Evaluate(context.Background(), emptyView{}, nil); err == nil {
		t.Fatalf("expected evaluation error")
	}
}

type errorRule struct{}

func (errorRule) Name() string { return "error" }

func (errorRule) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	return Result{}, fmt.Errorf("boom")
}

func TestRulesEngineRulesOrder(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{"first"})
	engine.Register(staticRule{"second"})
	names := engine.Rules()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Fatalf("unexpected rule order %v", names)
	}
}
