package domain

import (
	"errors"
	"fmt"
)

// ErrNotFoundSentinel is matched by every ErrNotFound through errors.Is.
var ErrNotFoundSentinel = errors.New("not found")

// ErrNotFound reports that an addressed entity or one of its parents is missing.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFoundSentinel) match any ErrNotFound.
func (e ErrNotFound) Is(target error) bool {
	return target == ErrNotFoundSentinel
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFoundSentinel)
}

// ValidationError reports an entity field that failed validation.
type ValidationError struct {
	Entity  EntityType
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Message)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// IsRuleViolation reports whether err wraps a RuleViolationError.
func IsRuleViolation(err error) bool {
	var v RuleViolationError
	return errors.As(err, &v)
}
