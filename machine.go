package fsmkit

import (
	"fmt"

	"github.com/google/uuid"
)

// untitledMachine is the display-name fallback for machines constructed
// without a name.
const untitledMachine = "untitled"

// StateMachine owns an ordered set of states with machine-wide unique keys,
// tracks the current state, and enforces the transition protocol: only
// transitions registered on the current state may fire, the exit hook, the
// transition action, and the enter hook run in that fixed order, and the
// current-state pointer advances only when all three succeed.
//
// A machine carries no internal locking; it is driven by one logical owner
// at a time.
type StateMachine struct {
	id          string
	displayName string
	states      []*State
	byKey       map[string]*State
	current     *State
	observers   *ObserverManager
}

// NewStateMachine creates a machine with the given display name and initial
// states. It fails with a DuplicateKeyError when two supplied states share
// a key. An empty name falls back to "untitled".
func NewStateMachine(name string, states ...*State) (*StateMachine, error) {
	sm := &StateMachine{
		id:          uuid.New().String(),
		displayName: name,
		states:      make([]*State, 0, len(states)),
		byKey:       make(map[string]*State),
		observers:   NewObserverManager(),
	}
	for _, s := range states {
		if err := sm.AddState(s); err != nil {
			return nil, err
		}
	}
	return sm, nil
}

// safeExecuteAction executes an action, converting a panic into an error
func safeExecuteAction(action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panic: %v", r)
		}
	}()
	return action()
}

// safeInvokeHook invokes an enter or exit hook, converting a panic into an
// error
func safeInvokeHook(hook Hook, other *State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panic: %v", r)
		}
	}()
	return hook(other)
}

// ID returns the machine's instance identifier. It is assigned at
// construction and only used for observability; it takes no part in lookup
// or equality.
func (sm *StateMachine) ID() string {
	return sm.id
}

// DisplayName returns the machine's human label, falling back to "untitled"
// when no name was given.
func (sm *StateMachine) DisplayName() string {
	if sm.displayName == "" {
		return untitledMachine
	}
	return sm.displayName
}

// States returns the machine's states in insertion order. The returned
// slice is a copy.
func (sm *StateMachine) States() []*State {
	out := make([]*State, len(sm.states))
	copy(out, sm.states)
	return out
}

// StateCount returns the number of states
func (sm *StateMachine) StateCount() int {
	return len(sm.states)
}

// HasState reports whether a state with the given key exists
func (sm *StateMachine) HasState(key string) bool {
	_, ok := sm.byKey[key]
	return ok
}

// AddState appends a state. It fails with a DuplicateKeyError when the key
// already exists machine-wide.
func (sm *StateMachine) AddState(s *State) error {
	return sm.InsertStateAt(len(sm.states), s)
}

// InsertStateAt inserts a state at the given position. Valid positions run
// from 0 through the current length inclusive.
func (sm *StateMachine) InsertStateAt(index int, s *State) error {
	if s == nil {
		return NewArgumentError("InsertStateAt", "state", "required reference is nil")
	}
	if index < 0 || index > len(sm.states) {
		return NewIndexError("InsertStateAt", index, len(sm.states))
	}
	if _, exists := sm.byKey[s.Key()]; exists {
		return NewDuplicateKeyError(sm.scope(), s.Key())
	}

	sm.states = append(sm.states, nil)
	copy(sm.states[index+1:], sm.states[index:])
	sm.states[index] = s
	sm.byKey[s.Key()] = s
	return nil
}

// RemoveState removes the given state if present and reports whether
// anything was removed. Removing an absent state is a no-op. If the removed
// state was current, the current pointer reverts to the default (the first
// remaining state). Transitions elsewhere that target the removed state are
// left in place; Validate detects them.
func (sm *StateMachine) RemoveState(s *State) bool {
	if s == nil {
		return false
	}
	for i, candidate := range sm.states {
		if candidate == s {
			sm.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveStateByKey removes the state with the given key if present and
// reports whether anything was removed.
func (sm *StateMachine) RemoveStateByKey(key string) bool {
	if _, ok := sm.byKey[key]; !ok {
		return false
	}
	for i, candidate := range sm.states {
		if candidate.Key() == key {
			sm.removeAt(i)
			return true
		}
	}
	return false
}

// RemoveStateAt removes the state at the given position. Unlike the key and
// reference based removals, an invalid index is an error.
func (sm *StateMachine) RemoveStateAt(index int) error {
	if index < 0 || index >= len(sm.states) {
		return NewIndexError("RemoveStateAt", index, len(sm.states))
	}
	sm.removeAt(index)
	return nil
}

// ClearStates empties the state collection and clears the current pointer
func (sm *StateMachine) ClearStates() {
	sm.states = sm.states[:0]
	sm.byKey = make(map[string]*State)
	sm.current = nil
}

// StateOf returns the state with the given key. It fails with a
// NotFoundError carrying the machine's display form and the missing key.
func (sm *StateMachine) StateOf(key string) (*State, error) {
	s, ok := sm.byKey[key]
	if !ok {
		return nil, NewStateNotFoundError(sm.scope(), key)
	}
	return s, nil
}

// FindState returns the first state, in insertion order, for which the
// predicate reports true. It fails with a NotFoundError when no state
// matches.
func (sm *StateMachine) FindState(match func(*State) bool) (*State, error) {
	if match == nil {
		return nil, NewArgumentError("FindState", "match", "required predicate is nil")
	}
	for _, s := range sm.states {
		if match(s) {
			return s, nil
		}
	}
	return nil, &NotFoundError{Container: sm.scope(), Kind: "state"}
}

// CurrentState returns the state the machine considers active. When never
// explicitly set it defaults to the first state; it is nil only while the
// state collection is empty.
func (sm *StateMachine) CurrentState() *State {
	if sm.current != nil {
		return sm.current
	}
	if len(sm.states) > 0 {
		return sm.states[0]
	}
	return nil
}

// SetCurrentState overrides the current state without running any hooks or
// actions. It fails when the state is nil or not a member of this machine.
func (sm *StateMachine) SetCurrentState(s *State) error {
	if s == nil {
		return NewArgumentError("SetCurrentState", "state", "required reference is nil")
	}
	if member, ok := sm.byKey[s.Key()]; !ok || member != s {
		return NewStateNotFoundError(sm.scope(), s.Key())
	}

	previous := sm.CurrentState()
	sm.current = s
	sm.observers.NotifyCurrentStateChanged(previous, s)
	return nil
}

// SetCurrentStateByKey resolves the key and delegates to SetCurrentState
func (sm *StateMachine) SetCurrentStateByKey(key string) error {
	s, err := sm.StateOf(key)
	if err != nil {
		return err
	}
	return sm.SetCurrentState(s)
}

// CurrentTransitions returns the outgoing transitions of the current state,
// or an empty slice when the machine has no current state.
func (sm *StateMachine) CurrentTransitions() []*Transition {
	current := sm.CurrentState()
	if current == nil {
		return []*Transition{}
	}
	return current.Transitions()
}

// ExecuteTransition fires a transition from the current state. The
// transition must be a member of the current state's transition set and its
// destination key must resolve to a state of this machine. The protocol
// runs exit hook, action, enter hook in that order; if any step fails, the
// whole call fails with a ChangeStateError wrapping the cause and the
// current state is left unchanged. Side effects already performed by
// earlier steps are not rolled back. On success the current state advances
// to the destination, which is returned.
func (sm *StateMachine) ExecuteTransition(t *Transition) (*State, error) {
	if t == nil {
		return nil, NewArgumentError("ExecuteTransition", "transition", "required reference is nil")
	}

	from := sm.CurrentState()
	if from == nil || !isMemberTransition(from, t) {
		err := NewTransitionNotAllowedError(t)
		sm.observers.NotifyTransitionRejected(t, err.Reason)
		return nil, err
	}

	to, ok := sm.byKey[t.To()]
	if !ok {
		err := &ChangeStateError{
			From:       from,
			Transition: t,
			Reason:     "destination does not resolve",
			Err:        NewStateNotFoundError(sm.scope(), t.To()),
		}
		sm.observers.NotifyTransitionRejected(t, err.Reason)
		return nil, err
	}

	if err := from.exit(to); err != nil {
		wrapped := NewTransitionFailedError(from, to, t, "exit hook", err)
		sm.observers.NotifyError(wrapped)
		return nil, wrapped
	}
	if err := t.Execute(); err != nil {
		wrapped := NewTransitionFailedError(from, to, t, "action", err)
		sm.observers.NotifyError(wrapped)
		return nil, wrapped
	}
	if err := to.enter(from); err != nil {
		wrapped := NewTransitionFailedError(from, to, t, "enter hook", err)
		sm.observers.NotifyError(wrapped)
		return nil, wrapped
	}

	sm.current = to
	sm.observers.NotifyStateExit(from)
	sm.observers.NotifyTransition(from, to, t)
	sm.observers.NotifyStateEnter(to)
	return to, nil
}

// ExecuteTransitionByKey resolves the key against the current state's
// transitions and delegates to ExecuteTransition. It fails with a
// NotFoundError when the current state has no such transition.
func (sm *StateMachine) ExecuteTransitionByKey(key string) (*State, error) {
	current := sm.CurrentState()
	if current == nil {
		return nil, NewTransitionNotFoundError(sm.scope(), key)
	}
	t, err := current.TransitionOf(key)
	if err != nil {
		return nil, err
	}
	return sm.ExecuteTransition(t)
}

// ExecuteRef fires a transition named by a KeyPair descriptor. It fails
// with a ChangeStateError when the machine is not currently in the state
// the descriptor names.
func (sm *StateMachine) ExecuteRef(ref KeyPair) (*State, error) {
	current := sm.CurrentState()
	if current == nil || current.Key() != ref.StateKey {
		return nil, &ChangeStateError{
			Reason: fmt.Sprintf("machine is not in state '%s'", ref.StateKey),
		}
	}
	return sm.ExecuteTransitionByKey(ref.TransitionKey)
}

// CanExecuteTransition is the non-throwing legality probe mirroring the
// guard of ExecuteTransition. The boolean is authoritative: it is true
// exactly when the code is CodeNone.
func (sm *StateMachine) CanExecuteTransition(t *Transition) (bool, ErrorCode) {
	if t == nil {
		return false, CodeTransitionNil
	}
	current := sm.CurrentState()
	if current == nil || !isMemberTransition(current, t) {
		return false, CodeTransitionNotFound
	}
	return true, CodeNone
}

// CanExecuteTransitionByKey probes legality of the transition with the
// given key on the current state.
func (sm *StateMachine) CanExecuteTransitionByKey(key string) (bool, ErrorCode) {
	current := sm.CurrentState()
	if current == nil || !current.HasTransition(key) {
		return false, CodeTransitionNotFound
	}
	return true, CodeNone
}

// GotoState moves to the given state through the first transition on the
// current state whose destination resolves to it, then delegates to
// ExecuteTransition. It fails when the state is nil, not a member of this
// machine, or not reachable from the current state in one hop.
func (sm *StateMachine) GotoState(s *State) (*State, error) {
	if s == nil {
		return nil, NewArgumentError("GotoState", "state", "required reference is nil")
	}
	if member, ok := sm.byKey[s.Key()]; !ok || member != s {
		return nil, NewStateNotFoundError(sm.scope(), s.Key())
	}

	t := sm.firstTransitionTo(s)
	if t == nil {
		return nil, &ChangeStateError{
			From:   sm.CurrentState(),
			To:     s,
			Reason: "state is not reachable from the current state",
		}
	}
	return sm.ExecuteTransition(t)
}

// GotoStateByKey resolves the key and delegates to GotoState
func (sm *StateMachine) GotoStateByKey(key string) (*State, error) {
	s, err := sm.StateOf(key)
	if err != nil {
		return nil, err
	}
	return sm.GotoState(s)
}

// CanGotoState is the non-throwing reachability probe mirroring GotoState
func (sm *StateMachine) CanGotoState(s *State) (bool, ErrorCode) {
	if s == nil {
		return false, CodeStateNil
	}
	if member, ok := sm.byKey[s.Key()]; !ok || member != s {
		return false, CodeStateNotFound
	}
	if sm.firstTransitionTo(s) == nil {
		return false, CodeTransitionNotAllowed
	}
	return true, CodeNone
}

// CanGotoStateByKey probes one-hop reachability of the state with the
// given key.
func (sm *StateMachine) CanGotoStateByKey(key string) (bool, ErrorCode) {
	s, ok := sm.byKey[key]
	if !ok {
		return false, CodeStateNotFound
	}
	if sm.firstTransitionTo(s) == nil {
		return false, CodeTransitionNotAllowed
	}
	return true, CodeNone
}

// PossibleToStates returns the destination states of every transition on
// the current state, in transition insertion order, with duplicates when
// two transitions share a destination. Destinations that do not resolve to
// a state of this machine are skipped.
func (sm *StateMachine) PossibleToStates() []*State {
	return sm.PossibleToStatesFrom(sm.CurrentState())
}

// PossibleToStatesFrom returns the destination states of every transition
// on the given state.
func (sm *StateMachine) PossibleToStatesFrom(from *State) []*State {
	out := []*State{}
	if from == nil {
		return out
	}
	for _, t := range from.transitions {
		if to, ok := sm.byKey[t.To()]; ok {
			out = append(out, to)
		}
	}
	return out
}

// TransitionByRef resolves a KeyPair descriptor: the state by key, then the
// transition by key within that state.
func (sm *StateMachine) TransitionByRef(ref KeyPair) (*Transition, error) {
	s, err := sm.StateOf(ref.StateKey)
	if err != nil {
		return nil, err
	}
	return s.TransitionOf(ref.TransitionKey)
}

// AddObserver registers an observer for machine lifecycle notifications
func (sm *StateMachine) AddObserver(observer Observer) {
	sm.observers.AddObserver(observer)
}

// RemoveObserver deregisters an observer
func (sm *StateMachine) RemoveObserver(observer Observer) {
	sm.observers.RemoveObserver(observer)
}

// firstTransitionTo returns the first transition on the current state whose
// destination resolves to the given state, or nil.
func (sm *StateMachine) firstTransitionTo(s *State) *Transition {
	current := sm.CurrentState()
	if current == nil {
		return nil
	}
	for _, t := range current.transitions {
		if target, ok := sm.byKey[t.To()]; ok && target == s {
			return t
		}
	}
	return nil
}

// isMemberTransition reports whether t is a member of the state's
// transition set. Membership is by identity: a distinct transition object
// with an equal key is not a member.
func isMemberTransition(s *State, t *Transition) bool {
	for _, candidate := range s.transitions {
		if candidate == t {
			return true
		}
	}
	return false
}

func (sm *StateMachine) removeAt(index int) {
	removed := sm.states[index]
	sm.states = append(sm.states[:index], sm.states[index+1:]...)
	delete(sm.byKey, removed.Key())
	if sm.current == removed {
		sm.current = nil
	}
}

func (sm *StateMachine) scope() string {
	return "machine '" + sm.DisplayName() + "'"
}
