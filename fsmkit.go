// Package fsmkit provides a small, embeddable finite state machine engine:
// named states connected by named transitions, lifecycle hooks fired on
// entry and exit, and a guarded execution path that only allows transitions
// registered on the current state.
//
// The engine is synchronous and carries no internal locking. A machine is
// driven by one logical owner at a time; callers that share a machine across
// goroutines must serialize access themselves.
package fsmkit

// Action is a host-supplied operation attached to a transition. It runs
// between the exit hook of the source state and the enter hook of the
// destination state. A non-nil error aborts the transition before the
// machine's current state is advanced.
type Action func() error

// Hook is a host-supplied enter or exit callback. It receives the
// counterpart state: the state being left for an enter hook, the state
// being entered for an exit hook. The counterpart may be nil when the
// machine has no current state yet.
type Hook func(other *State) error

// KeyPair names a transition by the state that owns it. Hosts use it to
// describe machine wiring data-driven instead of code-driven.
type KeyPair struct {
	StateKey      string
	TransitionKey string
}
