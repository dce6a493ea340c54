package fsmkit

import "fmt"

// ErrorCode identifies specific failure conditions. Codes are returned
// out-of-band by the non-throwing probes (CanExecuteTransition,
// CanGotoState) and can be recovered from any engine error via CodeOf.
type ErrorCode int

const (
	// No error occurred
	CodeNone ErrorCode = iota
	// A key collided with an existing key in the same scope
	CodeDuplicateKey
	// State was not found in its containing collection
	CodeStateNotFound
	// Transition was not found in its containing collection
	CodeTransitionNotFound
	// A required state argument was nil
	CodeStateNil
	// A required transition argument was nil
	CodeTransitionNil
	// Transition is not legal from the current state
	CodeTransitionNotAllowed
	// An index was outside the valid range for the target collection
	CodeIndexOutOfRange
	// A required argument or collection was missing
	CodeArgumentMissing
	// An exit hook, action, or enter hook failed
	CodeHookFailed
	// A validation rule was violated
	CodeValidationFailed
)

// ErrorMessage returns a human-readable description for an error code,
// suitable for presenting machine-generated codes to end users.
func ErrorMessage(code ErrorCode) string {
	switch code {
	case CodeNone:
		return "no error"
	case CodeDuplicateKey:
		return "key already exists in this collection"
	case CodeStateNotFound:
		return "state not found"
	case CodeTransitionNotFound:
		return "transition not found"
	case CodeStateNil:
		return "state must not be nil"
	case CodeTransitionNil:
		return "transition must not be nil"
	case CodeTransitionNotAllowed:
		return "transition is not allowed from the current state"
	case CodeIndexOutOfRange:
		return "index is out of range"
	case CodeArgumentMissing:
		return "a required argument is missing"
	case CodeHookFailed:
		return "a transition step failed"
	case CodeValidationFailed:
		return "state machine validation failed"
	default:
		return "unknown error"
	}
}

// DuplicateKeyError is returned by add, insert, and bulk-set operations when
// a key collides with an existing key in the same scope.
type DuplicateKeyError struct {
	// Scope is the display form of the owning collection
	Scope string
	// Key is the offending key
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key '%s' in %s", e.Key, e.Scope)
}

// NewDuplicateKeyError creates a duplicate key error
func NewDuplicateKeyError(scope, key string) *DuplicateKeyError {
	return &DuplicateKeyError{Scope: scope, Key: key}
}

// ChangeStateError is returned by the transition protocol, either because
// the requested transition is not legal from the current state, or because
// the exit/action/enter sequence failed partway through. From and To are nil
// for the "not legal" case. When a step failed, Err carries the cause.
type ChangeStateError struct {
	From       *State
	To         *State
	Transition *Transition
	Reason     string
	Err        error
}

func (e *ChangeStateError) Error() string {
	from, to := "<none>", "<none>"
	if e.From != nil {
		from = e.From.DisplayName()
	}
	if e.To != nil {
		to = e.To.DisplayName()
	}
	key := "<none>"
	if e.Transition != nil {
		key = e.Transition.Key()
	}
	if e.Err != nil {
		return fmt.Sprintf("cannot change state [%s -> %s via '%s']: %s: %v", from, to, key, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot change state [%s -> %s via '%s']: %s", from, to, key, e.Reason)
}

func (e *ChangeStateError) Unwrap() error {
	return e.Err
}

// NewTransitionNotAllowedError creates the legality-guard failure: the
// attempted transition is not registered on the current state.
func NewTransitionNotAllowedError(transition *Transition) *ChangeStateError {
	return &ChangeStateError{
		Transition: transition,
		Reason:     "transition does not belong to the current state",
	}
}

// NewTransitionFailedError creates the step failure: exit, action, or enter
// returned an error. The machine's current state was not advanced.
func NewTransitionFailedError(from, to *State, transition *Transition, step string, err error) *ChangeStateError {
	return &ChangeStateError{
		From:       from,
		To:         to,
		Transition: transition,
		Reason:     step + " failed",
		Err:        err,
	}
}

// NotFoundError is returned by throwing lookups when no element matches.
type NotFoundError struct {
	// Container is the display form of the collection that was searched
	Container string
	// Kind is "state" or "transition"
	Kind string
	// Key is the missing key; empty for predicate searches
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("no matching %s in %s", e.Kind, e.Container)
	}
	return fmt.Sprintf("%s '%s' not found in %s", e.Kind, e.Key, e.Container)
}

// NewStateNotFoundError creates a state lookup failure
func NewStateNotFoundError(container, key string) *NotFoundError {
	return &NotFoundError{Container: container, Kind: "state", Key: key}
}

// NewTransitionNotFoundError creates a transition lookup failure
func NewTransitionNotFoundError(container, key string) *NotFoundError {
	return &NotFoundError{Container: container, Kind: "transition", Key: key}
}

// ArgumentError is returned when a required reference or collection argument
// is absent, or an argument is not usable for the requested operation.
type ArgumentError struct {
	Op       string
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument '%s': %s", e.Op, e.Argument, e.Reason)
}

// NewArgumentError creates an argument error
func NewArgumentError(op, argument, reason string) *ArgumentError {
	return &ArgumentError{Op: op, Argument: argument, Reason: reason}
}

// IndexError is returned when an index is outside the valid range for the
// target collection.
type IndexError struct {
	Op     string
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for length %d", e.Op, e.Index, e.Length)
}

// NewIndexError creates an index error
func NewIndexError(op string, index, length int) *IndexError {
	return &IndexError{Op: op, Index: index, Length: length}
}

// ValidationError reports a single violated validation rule.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation rule '%s' violated: %s", e.Rule, e.Detail)
}

// NewValidationError creates a validation error
func NewValidationError(rule, detail string) *ValidationError {
	return &ValidationError{Rule: rule, Detail: detail}
}

// IsDuplicateKeyError checks if an error is a DuplicateKeyError
func IsDuplicateKeyError(err error) bool {
	_, ok := err.(*DuplicateKeyError)
	return ok
}

// IsChangeStateError checks if an error is a ChangeStateError
func IsChangeStateError(err error) bool {
	_, ok := err.(*ChangeStateError)
	return ok
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsArgumentError checks if an error is an ArgumentError
func IsArgumentError(err error) bool {
	_, ok := err.(*ArgumentError)
	return ok
}

// IsIndexError checks if an error is an IndexError
func IsIndexError(err error) bool {
	_, ok := err.(*IndexError)
	return ok
}

// CodeOf returns the error code for known error types. It returns CodeNone
// for nil and for errors the engine did not produce.
func CodeOf(err error) ErrorCode {
	switch e := err.(type) {
	case nil:
		return CodeNone
	case *DuplicateKeyError:
		return CodeDuplicateKey
	case *ChangeStateError:
		switch e.Err.(type) {
		case nil:
			return CodeTransitionNotAllowed
		case *NotFoundError:
			return CodeStateNotFound
		default:
			return CodeHookFailed
		}
	case *NotFoundError:
		if e.Kind == "state" {
			return CodeStateNotFound
		}
		return CodeTransitionNotFound
	case *ArgumentError:
		return CodeArgumentMissing
	case *IndexError:
		return CodeIndexOutOfRange
	case *ValidationError:
		return CodeValidationFailed
	default:
		return CodeNone
	}
}
