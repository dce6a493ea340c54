package fsmkit

// MachineBuilder assembles a state machine through a fluent interface.
// Configuration problems are collected as they are declared and surfaced
// together by Build, so a definition can be written in one expression
// without intermediate error handling.
type MachineBuilder struct {
	name    string
	states  []*stateDef
	byKey   map[string]*stateDef
	initial string
	wiring  map[KeyPair]Action
	errs    *ErrorCollector
}

type stateDef struct {
	key         string
	displayName string
	end         bool
	onEnter     Hook
	onExit      Hook
	transitions []*transitionDef
}

type transitionDef struct {
	key         string
	to          string
	displayName string
	action      Action
}

// StateBuilder configures one state of the machine under construction
type StateBuilder struct {
	machine *MachineBuilder
	def     *stateDef
}

// TransitionBuilder configures one transition of the state under
// construction
type TransitionBuilder struct {
	state *StateBuilder
	def   *transitionDef
}

// NewMachineBuilder starts a machine definition with the given display name
func NewMachineBuilder(name string) *MachineBuilder {
	return &MachineBuilder{
		name:   name,
		byKey:  make(map[string]*stateDef),
		wiring: make(map[KeyPair]Action),
		errs:   NewErrorCollector(),
	}
}

// State declares a state and returns its builder. Declaring the same key
// twice returns the existing builder so transitions can be added from
// multiple places.
func (b *MachineBuilder) State(key string) *StateBuilder {
	return b.state(key, false)
}

// EndState declares an end state and returns its builder
func (b *MachineBuilder) EndState(key string) *StateBuilder {
	return b.state(key, true)
}

func (b *MachineBuilder) state(key string, end bool) *StateBuilder {
	if def, ok := b.byKey[key]; ok {
		if def.end != end {
			b.errs.Add(NewArgumentError("MachineBuilder", "state",
				"state '"+key+"' declared both as end state and as regular state"))
		}
		return &StateBuilder{machine: b, def: def}
	}
	def := &stateDef{key: key, end: end}
	b.states = append(b.states, def)
	b.byKey[key] = def
	return &StateBuilder{machine: b, def: def}
}

// Initial names the state the machine starts in. Without it the machine
// defaults to the first declared state.
func (b *MachineBuilder) Initial(key string) *MachineBuilder {
	b.initial = key
	return b
}

// Wire attaches actions to declared transitions data-driven: each KeyPair
// names a transition by its owning state, and the associated action is
// attached to it at build time. Unknown references become build errors.
func (b *MachineBuilder) Wire(wiring map[KeyPair]Action) *MachineBuilder {
	for ref, action := range wiring {
		b.wiring[ref] = action
	}
	return b
}

// Build assembles the machine. It succeeds only when no configuration
// errors were collected; otherwise it returns an error listing every
// problem at once.
func (b *MachineBuilder) Build() (*StateMachine, error) {
	states := make([]*State, 0, len(b.states))
	for _, def := range b.states {
		var s *State
		if def.end {
			s = NewEndState(def.key)
			if len(def.transitions) > 0 {
				b.errs.Add(NewArgumentError("MachineBuilder", "transition",
					"state '"+def.key+"' is an end state and cannot have outgoing transitions"))
			}
		} else {
			var err error
			s, err = NewState(def.key)
			if err != nil {
				b.errs.Add(err)
				continue
			}
			for _, td := range def.transitions {
				t := NewTransition(td.key, td.to)
				if td.displayName != "" {
					t.WithDisplayName(td.displayName)
				}
				if td.action != nil {
					t.WithAction(td.action)
				}
				b.errs.Add(s.AddTransition(t))
			}
		}
		if def.displayName != "" {
			s.WithDisplayName(def.displayName)
		}
		if def.onEnter != nil {
			s.WithOnEnter(def.onEnter)
		}
		if def.onExit != nil {
			s.WithOnExit(def.onExit)
		}
		states = append(states, s)
	}

	sm, err := NewStateMachine(b.name, states...)
	if err != nil {
		b.errs.Add(err)
	}

	if sm != nil {
		for ref, action := range b.wiring {
			t, err := sm.TransitionByRef(ref)
			if err != nil {
				b.errs.Add(err)
				continue
			}
			t.SetAction(action)
		}
		if b.initial != "" {
			b.errs.Add(sm.SetCurrentStateByKey(b.initial))
		}
	}

	if b.errs.HasErrors() {
		return nil, b.errs.Err()
	}
	return sm, nil
}

// DisplayName sets the state's human label
func (sb *StateBuilder) DisplayName(name string) *StateBuilder {
	sb.def.displayName = name
	return sb
}

// OnEnter sets the state's enter hook
func (sb *StateBuilder) OnEnter(hook Hook) *StateBuilder {
	sb.def.onEnter = hook
	return sb
}

// OnExit sets the state's exit hook
func (sb *StateBuilder) OnExit(hook Hook) *StateBuilder {
	sb.def.onExit = hook
	return sb
}

// Transition declares an outgoing transition to the state with key to
func (sb *StateBuilder) Transition(key, to string) *TransitionBuilder {
	def := &transitionDef{key: key, to: to}
	sb.def.transitions = append(sb.def.transitions, def)
	return &TransitionBuilder{state: sb, def: def}
}

// State moves on to declaring another state
func (sb *StateBuilder) State(key string) *StateBuilder {
	return sb.machine.State(key)
}

// EndState moves on to declaring an end state
func (sb *StateBuilder) EndState(key string) *StateBuilder {
	return sb.machine.EndState(key)
}

// End returns to the machine builder
func (sb *StateBuilder) End() *MachineBuilder {
	return sb.machine
}

// Build delegates to the machine builder
func (sb *StateBuilder) Build() (*StateMachine, error) {
	return sb.machine.Build()
}

// DisplayName sets the transition's human label
func (tb *TransitionBuilder) DisplayName(name string) *TransitionBuilder {
	tb.def.displayName = name
	return tb
}

// Action sets the transition's action
func (tb *TransitionBuilder) Action(action Action) *TransitionBuilder {
	tb.def.action = action
	return tb
}

// Transition declares a sibling transition on the same state
func (tb *TransitionBuilder) Transition(key, to string) *TransitionBuilder {
	return tb.state.Transition(key, to)
}

// State moves on to declaring another state
func (tb *TransitionBuilder) State(key string) *StateBuilder {
	return tb.state.machine.State(key)
}

// EndState moves on to declaring an end state
func (tb *TransitionBuilder) EndState(key string) *StateBuilder {
	return tb.state.machine.EndState(key)
}

// End returns to the machine builder
func (tb *TransitionBuilder) End() *MachineBuilder {
	return tb.state.machine
}

// Build delegates to the machine builder
func (tb *TransitionBuilder) Build() (*StateMachine, error) {
	return tb.state.machine.Build()
}
