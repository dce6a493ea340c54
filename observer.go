package fsmkit

import "fmt"

// Observer represents an entity that observes machine lifecycle. Observers
// are notified after the machine has committed its own pointer; they cannot
// veto or reorder the transition protocol.
type Observer interface {
	// OnTransition is called after a successful state change
	OnTransition(from, to *State, transition *Transition)

	// OnStateEnter is called after the destination state became current
	OnStateEnter(state *State)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStateExit is called after a successful state change, for the state
	// that was left
	OnStateExit(state *State)

	// OnTransitionRejected is called when the legality guard refuses a
	// transition
	OnTransitionRejected(transition *Transition, reason string)

	// OnCurrentStateChanged is called when the current state is overridden
	// via SetCurrentState, outside the transition protocol
	OnCurrentStateChanged(previous, current *State)

	// OnError is called when an exit hook, action, or enter hook fails
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(from, to *State, transition *Transition) {}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(state *State) {}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(state *State) {}

// OnTransitionRejected implements the optional ExtendedObserver method
func (o *BaseObserver) OnTransitionRejected(transition *Transition, reason string) {}

// OnCurrentStateChanged implements the optional ExtendedObserver method
func (o *BaseObserver) OnCurrentStateChanged(previous, current *State) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// ObserverManager manages a collection of observers. Notification is
// panic-isolated: a panicking observer never breaks the machine or the
// other observers.
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates an empty observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// NotifyTransition notifies all observers of a successful state change
func (om *ObserverManager) NotifyTransition(from, to *State, transition *Transition) {
	for _, observer := range om.snapshot() {
		o := observer
		notifySafely(o, func() {
			o.OnTransition(from, to, transition)
		})
	}
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(state *State) {
	for _, observer := range om.snapshot() {
		o := observer
		notifySafely(o, func() {
			o.OnStateEnter(state)
		})
	}
}

// NotifyStateExit notifies extended observers of state exit
func (om *ObserverManager) NotifyStateExit(state *State) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			notifySafely(observer, func() {
				extObs.OnStateExit(state)
			})
		}
	}
}

// NotifyTransitionRejected notifies extended observers of a refused
// transition
func (om *ObserverManager) NotifyTransitionRejected(transition *Transition, reason string) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			notifySafely(observer, func() {
				extObs.OnTransitionRejected(transition, reason)
			})
		}
	}
}

// NotifyCurrentStateChanged notifies extended observers of an explicit
// current-state override
func (om *ObserverManager) NotifyCurrentStateChanged(previous, current *State) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			notifySafely(observer, func() {
				extObs.OnCurrentStateChanged(previous, current)
			})
		}
	}
}

// NotifyError notifies extended observers of a failed transition step
func (om *ObserverManager) NotifyError(err error) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			notifySafely(observer, func() {
				extObs.OnError(err)
			})
		}
	}
}

func (om *ObserverManager) snapshot() []Observer {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)
	return observers
}

// notifySafely runs a notification, reporting a panic to the observer's own
// OnError when it implements the extended interface.
func notifySafely(observer Observer, notify func()) {
	defer func() {
		if r := recover(); r != nil {
			if extObs, ok := observer.(ExtendedObserver); ok {
				func() {
					defer func() { _ = recover() }()
					extObs.OnError(fmt.Errorf("observer panic: %v", r))
				}()
			}
		}
	}()
	notify()
}
