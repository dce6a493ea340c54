package fsmkit

import "github.com/rs/zerolog"

// LoggingObserver emits a structured log line for every machine lifecycle
// notification. The logger is supplied by the host; the machine's ID and
// display name are attached as constant fields.
type LoggingObserver struct {
	log zerolog.Logger
}

// NewLoggingObserver creates a logging observer bound to the given machine.
// Register it with AddObserver on the same machine.
func NewLoggingObserver(logger zerolog.Logger, sm *StateMachine) *LoggingObserver {
	return &LoggingObserver{
		log: logger.With().
			Str("machine_id", sm.ID()).
			Str("machine", sm.DisplayName()).
			Logger(),
	}
}

// OnTransition logs a successful state change
func (o *LoggingObserver) OnTransition(from, to *State, transition *Transition) {
	o.log.Info().
		Str("from", from.Key()).
		Str("to", to.Key()).
		Str("transition", transition.Key()).
		Msg("state changed")
}

// OnStateEnter logs entry into a state
func (o *LoggingObserver) OnStateEnter(state *State) {
	o.log.Debug().
		Str("state", state.Key()).
		Msg("state entered")
}

// OnStateExit logs exit from a state
func (o *LoggingObserver) OnStateExit(state *State) {
	o.log.Debug().
		Str("state", state.Key()).
		Msg("state exited")
}

// OnTransitionRejected logs a transition refused by the legality guard
func (o *LoggingObserver) OnTransitionRejected(transition *Transition, reason string) {
	evt := o.log.Warn().Str("reason", reason)
	if transition != nil {
		evt = evt.Str("transition", transition.Key())
	}
	evt.Msg("transition rejected")
}

// OnCurrentStateChanged logs an explicit current-state override
func (o *LoggingObserver) OnCurrentStateChanged(previous, current *State) {
	evt := o.log.Info().Str("to", current.Key())
	if previous != nil {
		evt = evt.Str("from", previous.Key())
	}
	evt.Msg("current state overridden")
}

// OnError logs a failed transition step
func (o *LoggingObserver) OnError(err error) {
	o.log.Error().Err(err).Msg("transition step failed")
}
