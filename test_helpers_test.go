package fsmkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newDraftMachine builds the document machine used across tests: draft has
// one transition "submit" -> review, review has "approve" -> published and
// "reject" -> draft, published is an end state.
func newDraftMachine(t *testing.T) *StateMachine {
	t.Helper()

	draft, err := NewState("draft", NewTransition("submit", "review"))
	require.NoError(t, err)
	review, err := NewState("review",
		NewTransition("approve", "published"),
		NewTransition("reject", "draft"),
	)
	require.NoError(t, err)
	published := NewEndState("published")

	sm, err := NewStateMachine("document", draft, review, published)
	require.NoError(t, err)
	return sm
}

// callRecorder captures hook and action invocations in order
type callRecorder struct {
	calls []string
}

func (r *callRecorder) hook(name string) Hook {
	return func(other *State) error {
		entry := name
		if other != nil {
			entry += ":" + other.Key()
		}
		r.calls = append(r.calls, entry)
		return nil
	}
}

func (r *callRecorder) action(name string) Action {
	return func() error {
		r.calls = append(r.calls, name)
		return nil
	}
}

// recordingObserver captures every observer notification
type recordingObserver struct {
	BaseObserver
	transitions []string
	enters      []string
	exits       []string
	rejections  []string
	overrides   []string
	errors      []error
}

func (o *recordingObserver) OnTransition(from, to *State, transition *Transition) {
	o.transitions = append(o.transitions, from.Key()+"->"+to.Key()+":"+transition.Key())
}

func (o *recordingObserver) OnStateEnter(state *State) {
	o.enters = append(o.enters, state.Key())
}

func (o *recordingObserver) OnStateExit(state *State) {
	o.exits = append(o.exits, state.Key())
}

func (o *recordingObserver) OnTransitionRejected(transition *Transition, reason string) {
	key := "<nil>"
	if transition != nil {
		key = transition.Key()
	}
	o.rejections = append(o.rejections, key)
}

func (o *recordingObserver) OnCurrentStateChanged(previous, current *State) {
	o.overrides = append(o.overrides, current.Key())
}

func (o *recordingObserver) OnError(err error) {
	o.errors = append(o.errors, err)
}

// assertMachineInvariants checks the collection-integrity rules that must
// hold after any successful mutating call: unique state keys, unique
// transition keys per state, and a current state that is a member.
func assertMachineInvariants(t *testing.T, sm *StateMachine) {
	t.Helper()

	stateKeys := make(map[string]bool)
	for _, s := range sm.States() {
		require.False(t, stateKeys[s.Key()], "duplicate state key %q", s.Key())
		stateKeys[s.Key()] = true

		transitionKeys := make(map[string]bool)
		for _, tr := range s.Transitions() {
			require.False(t, transitionKeys[tr.Key()], "duplicate transition key %q on state %q", tr.Key(), s.Key())
			transitionKeys[tr.Key()] = true
		}
	}

	if current := sm.CurrentState(); current != nil {
		require.True(t, stateKeys[current.Key()], "current state %q is not a member", current.Key())
	}
}
