package fsmkit

import (
	"fmt"
	"strings"
)

// ValidationRule checks one structural property of a machine and returns an
// error describing the violation, or nil.
type ValidationRule func(*StateMachine) error

// RuleTransitionTargetsResolve checks that the destination key of every
// transition resolves to a state of the machine. It catches both typos and
// dangling references left behind by RemoveState.
func RuleTransitionTargetsResolve(sm *StateMachine) error {
	collector := NewErrorCollector()
	for _, s := range sm.states {
		for _, t := range s.transitions {
			if t.To() == "" {
				collector.Add(NewValidationError("transition-targets-resolve",
					fmt.Sprintf("transition '%s' on %s has no destination", t.Key(), s.scope())))
				continue
			}
			if !sm.HasState(t.To()) {
				collector.Add(NewValidationError("transition-targets-resolve",
					fmt.Sprintf("transition '%s' on %s targets unknown state '%s'", t.Key(), s.scope(), t.To())))
			}
		}
	}
	return collector.Err()
}

// RuleNonEndStatesHaveTransitions checks that every state that is not an
// end state has at least one outgoing transition.
func RuleNonEndStatesHaveTransitions(sm *StateMachine) error {
	collector := NewErrorCollector()
	for _, s := range sm.states {
		if !s.IsEndState() && s.TransitionCount() == 0 {
			collector.Add(NewValidationError("non-end-states-have-transitions",
				s.scope()+" is not an end state but has no outgoing transitions"))
		}
	}
	return collector.Err()
}

// RuleEndStatesHaveNoTransitions checks that end states kept their empty
// transition set. The engine already enforces this on every mutation path;
// the rule exists for machines assembled by hand from deserialized parts.
func RuleEndStatesHaveNoTransitions(sm *StateMachine) error {
	collector := NewErrorCollector()
	for _, s := range sm.states {
		if s.IsEndState() && s.TransitionCount() > 0 {
			collector.Add(NewValidationError("end-states-have-no-transitions",
				s.scope()+" is an end state but has outgoing transitions"))
		}
	}
	return collector.Err()
}

// DefaultValidationRules are the rules Validate runs when called without
// arguments.
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		RuleTransitionTargetsResolve,
		RuleNonEndStatesHaveTransitions,
	}
}

// Validate runs the given rules against the machine and returns a single
// error listing every violation, or nil when all rules pass. Called without
// rules it runs DefaultValidationRules.
func (sm *StateMachine) Validate(rules ...ValidationRule) error {
	if len(rules) == 0 {
		rules = DefaultValidationRules()
	}

	collector := NewErrorCollector()
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		collector.Add(rule(sm))
	}
	return collector.Err()
}

// ErrorCollector accumulates errors across multiple checks and flattens
// nested collectors, so that rule authors can aggregate freely.
type ErrorCollector struct {
	errors []error
}

// NewErrorCollector creates an empty collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add records an error; nil is ignored, nested collections are flattened
func (c *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	if collected, ok := err.(*CollectedErrors); ok {
		c.errors = append(c.errors, collected.Errors...)
		return
	}
	c.errors = append(c.errors, err)
}

// HasErrors reports whether anything was collected
func (c *ErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}

// Err returns the collected errors as a single error, or nil when none
// were recorded. A single error is returned unwrapped.
func (c *ErrorCollector) Err() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return &CollectedErrors{Errors: c.errors}
	}
}

// CollectedErrors is the aggregate error produced by an ErrorCollector
type CollectedErrors struct {
	Errors []error
}

func (e *CollectedErrors) Error() string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(messages, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (e *CollectedErrors) Unwrap() []error {
	return e.Errors
}
