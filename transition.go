package fsmkit

// Transition represents a directed edge from whichever state owns it to a
// fixed destination state. The destination is held as a state key, a
// non-owning reference resolved through the owning machine at execution
// time. Keys are unique only within the owning state's transition set; two
// transitions on different states may share a key.
type Transition struct {
	key         string
	displayName string
	to          string
	action      Action
}

// NewTransition creates a transition with the given key and destination
// state key. The destination may be empty for a transition that is wired up
// later via SetTo. No key-format validation is performed.
func NewTransition(key, toState string) *Transition {
	return &Transition{
		key: key,
		to:  toState,
	}
}

// Key returns the transition identifier
func (t *Transition) Key() string {
	return t.key
}

// DisplayName returns the human label, falling back to the key when no
// label was set.
func (t *Transition) DisplayName() string {
	if t.displayName == "" {
		return t.key
	}
	return t.displayName
}

// To returns the destination state key. It may be empty.
func (t *Transition) To() string {
	return t.to
}

// Action returns the attached action, or nil
func (t *Transition) Action() Action {
	return t.action
}

// WithDisplayName sets the human label and returns the transition
func (t *Transition) WithDisplayName(name string) *Transition {
	t.displayName = name
	return t
}

// WithAction sets the action and returns the transition
func (t *Transition) WithAction(action Action) *Transition {
	t.action = action
	return t
}

// SetTo replaces the destination state key and returns the transition.
// No validation is performed; the key is resolved lazily at execution time.
func (t *Transition) SetTo(toState string) *Transition {
	t.to = toState
	return t
}

// SetAction replaces the action and returns the transition
func (t *Transition) SetAction(action Action) *Transition {
	t.action = action
	return t
}

// Execute invokes the attached action if present and is a no-op otherwise.
// Action errors and recovered panics propagate to the caller unmodified;
// the transition protocol one layer up wraps them in a ChangeStateError.
func (t *Transition) Execute() error {
	if t.action == nil {
		return nil
	}
	return safeExecuteAction(t.action)
}
