package fsmkit

// State is a node in the state machine: a key, an optional display name, an
// ordered set of outgoing transitions with unique keys, optional enter and
// exit hooks, and an end-state flag. Insertion order of transitions is
// preserved and determines "first match" lookups.
type State struct {
	key         string
	displayName string
	transitions []*Transition
	byKey       map[string]*Transition
	onEnter     Hook
	onExit      Hook
	endState    bool
}

// NewState creates a state with the given key and initial transition set.
// It fails with a DuplicateKeyError when two supplied transitions share a
// key, and with an ArgumentError when a supplied transition is nil.
func NewState(key string, transitions ...*Transition) (*State, error) {
	s := &State{
		key:         key,
		transitions: make([]*Transition, 0, len(transitions)),
		byKey:       make(map[string]*Transition),
	}
	for _, t := range transitions {
		if err := s.AddTransition(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewEndState creates an end state. Any supplied transitions are discarded:
// an end state starts with an empty transition set and refuses to acquire
// outgoing transitions later.
func NewEndState(key string, _ ...*Transition) *State {
	return &State{
		key:         key,
		transitions: make([]*Transition, 0),
		byKey:       make(map[string]*Transition),
		endState:    true,
	}
}

// Key returns the state identifier
func (s *State) Key() string {
	return s.key
}

// DisplayName returns the human label, falling back to the key when no
// label was set.
func (s *State) DisplayName() string {
	if s.displayName == "" {
		return s.key
	}
	return s.displayName
}

// IsEndState reports whether this state was constructed as an end state
func (s *State) IsEndState() bool {
	return s.endState
}

// WithDisplayName sets the human label and returns the state
func (s *State) WithDisplayName(name string) *State {
	s.displayName = name
	return s
}

// WithOnEnter sets the enter hook and returns the state. The hook receives
// the state being left and is invoked only by the machine's transition
// protocol.
func (s *State) WithOnEnter(hook Hook) *State {
	s.onEnter = hook
	return s
}

// WithOnExit sets the exit hook and returns the state. The hook receives
// the state being entered.
func (s *State) WithOnExit(hook Hook) *State {
	s.onExit = hook
	return s
}

// Transitions returns the outgoing transitions in insertion order. The
// returned slice is a copy; mutating it does not affect the state.
func (s *State) Transitions() []*Transition {
	out := make([]*Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// TransitionCount returns the number of outgoing transitions
func (s *State) TransitionCount() int {
	return len(s.transitions)
}

// HasTransition reports whether a transition with the given key exists
func (s *State) HasTransition(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// SetTransitions replaces the whole transition set. A nil collection fails
// with an ArgumentError, a duplicated key fails with a DuplicateKeyError
// naming the first key that appears more than once, and an end state always
// refuses. On failure the existing set is left untouched.
func (s *State) SetTransitions(transitions []*Transition) error {
	if transitions == nil {
		return NewArgumentError("SetTransitions", "transitions", "required collection is nil")
	}
	if s.endState {
		return NewArgumentError("SetTransitions", "transitions", s.scope()+" is an end state and cannot have outgoing transitions")
	}

	next := make([]*Transition, 0, len(transitions))
	byKey := make(map[string]*Transition, len(transitions))
	for _, t := range transitions {
		if t == nil {
			return NewArgumentError("SetTransitions", "transitions", "collection contains a nil transition")
		}
		if _, exists := byKey[t.Key()]; exists {
			return NewDuplicateKeyError(s.scope(), t.Key())
		}
		next = append(next, t)
		byKey[t.Key()] = t
	}

	s.transitions = next
	s.byKey = byKey
	return nil
}

// AddTransition appends a transition. It fails with a DuplicateKeyError when
// the key already exists in this state's set.
func (s *State) AddTransition(t *Transition) error {
	return s.InsertTransitionAt(len(s.transitions), t)
}

// InsertTransitionAt inserts a transition at the given position. Valid
// positions run from 0 through the current length inclusive.
func (s *State) InsertTransitionAt(index int, t *Transition) error {
	if t == nil {
		return NewArgumentError("InsertTransitionAt", "transition", "required reference is nil")
	}
	if s.endState {
		return NewArgumentError("InsertTransitionAt", "transition", s.scope()+" is an end state and cannot have outgoing transitions")
	}
	if index < 0 || index > len(s.transitions) {
		return NewIndexError("InsertTransitionAt", index, len(s.transitions))
	}
	if _, exists := s.byKey[t.Key()]; exists {
		return NewDuplicateKeyError(s.scope(), t.Key())
	}

	s.transitions = append(s.transitions, nil)
	copy(s.transitions[index+1:], s.transitions[index:])
	s.transitions[index] = t
	s.byKey[t.Key()] = t
	return nil
}

// RemoveTransition removes the given transition if present. It reports
// whether anything was removed and never fails; removing an absent
// transition is a no-op.
func (s *State) RemoveTransition(t *Transition) bool {
	if t == nil {
		return false
	}
	for i, candidate := range s.transitions {
		if candidate == t {
			s.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveTransitionByKey removes the transition with the given key if
// present and reports whether anything was removed.
func (s *State) RemoveTransitionByKey(key string) bool {
	if _, ok := s.byKey[key]; !ok {
		return false
	}
	for i, candidate := range s.transitions {
		if candidate.Key() == key {
			s.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveTransitionAt removes the transition at the given position. Unlike
// the key and reference based removals, an invalid index is an error.
func (s *State) RemoveTransitionAt(index int) error {
	if index < 0 || index >= len(s.transitions) {
		return NewIndexError("RemoveTransitionAt", index, len(s.transitions))
	}
	s.removeAt(index)
	return nil
}

// ClearTransitions empties the transition set unconditionally, end states
// included. Clearing an already empty set is a no-op.
func (s *State) ClearTransitions() {
	s.transitions = s.transitions[:0]
	s.byKey = make(map[string]*Transition)
}

// TransitionOf returns the transition with the given key. It fails with a
// NotFoundError carrying this state's display form and the missing key.
func (s *State) TransitionOf(key string) (*Transition, error) {
	t, ok := s.byKey[key]
	if !ok {
		return nil, NewTransitionNotFoundError(s.scope(), key)
	}
	return t, nil
}

// FindTransition returns the first transition, in insertion order, for
// which the predicate reports true. It fails with a NotFoundError when no
// transition matches.
func (s *State) FindTransition(match func(*Transition) bool) (*Transition, error) {
	if match == nil {
		return nil, NewArgumentError("FindTransition", "match", "required predicate is nil")
	}
	for _, t := range s.transitions {
		if match(t) {
			return t, nil
		}
	}
	return nil, &NotFoundError{Container: s.scope(), Kind: "transition"}
}

// enter invokes the enter hook, passing the state being left. Invoked only
// by the machine's transition protocol.
func (s *State) enter(from *State) error {
	if s.onEnter == nil {
		return nil
	}
	return safeInvokeHook(s.onEnter, from)
}

// exit invokes the exit hook, passing the state being entered.
func (s *State) exit(to *State) error {
	if s.onExit == nil {
		return nil
	}
	return safeInvokeHook(s.onExit, to)
}

func (s *State) removeAt(index int) {
	removed := s.transitions[index]
	s.transitions = append(s.transitions[:index], s.transitions[index+1:]...)
	delete(s.byKey, removed.Key())
}

func (s *State) scope() string {
	return "state '" + s.DisplayName() + "'"
}
