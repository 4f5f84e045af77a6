package core

import "ocmhub/pkg/domain"

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewWorkbenchProjectLinkRule())
	engine.Register(NewUniqueIdentityRule())
	engine.Register(NewNaturalKeyCollisionRule())
	return engine
}
