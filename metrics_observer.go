package fsmkit

import "github.com/prometheus/client_golang/prometheus"

// MetricsObserver counts machine activity with Prometheus metrics. One
// observer owns one pair of counter vectors; share it across machines to
// aggregate them under the machine label.
type MetricsObserver struct {
	machine     string
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
}

// NewMetricsObserver creates a metrics observer for the given machine and
// registers its collectors on reg. Registration failures are reported by
// the registerer itself (prometheus panics on duplicate registration), so
// use one observer per registerer and machine name.
func NewMetricsObserver(reg prometheus.Registerer, sm *StateMachine) *MetricsObserver {
	o := &MetricsObserver{
		machine: sm.DisplayName(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fsm_transitions_total",
			Help: "Successful state transitions, by machine and edge.",
		}, []string{"machine", "from", "to", "transition"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fsm_transitions_rejected_total",
			Help: "Transitions refused by the legality guard, by machine.",
		}, []string{"machine"}),
	}
	reg.MustRegister(o.transitions, o.rejected)
	return o
}

// OnTransition counts a successful state change
func (o *MetricsObserver) OnTransition(from, to *State, transition *Transition) {
	o.transitions.WithLabelValues(o.machine, from.Key(), to.Key(), transition.Key()).Inc()
}

// OnStateEnter implements Observer; entry is implied by the transition
// counter and not counted separately.
func (o *MetricsObserver) OnStateEnter(state *State) {}

// OnStateExit implements ExtendedObserver
func (o *MetricsObserver) OnStateExit(state *State) {}

// OnTransitionRejected counts a refused transition
func (o *MetricsObserver) OnTransitionRejected(transition *Transition, reason string) {
	o.rejected.WithLabelValues(o.machine).Inc()
}

// OnCurrentStateChanged implements ExtendedObserver
func (o *MetricsObserver) OnCurrentStateChanged(previous, current *State) {}

// OnError counts a failed transition step as a rejection
func (o *MetricsObserver) OnError(err error) {
	o.rejected.WithLabelValues(o.machine).Inc()
}
