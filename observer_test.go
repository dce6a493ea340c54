package fsmkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_NotifiedOnSuccessfulTransition(t *testing.T) {
	sm := newDraftMachine(t)
	obs := &recordingObserver{}
	sm.AddObserver(obs)

	_, err := sm.ExecuteTransitionByKey("submit")
	require.NoError(t, err)

	assert.Equal(t, []string{"draft"}, obs.exits)
	assert.Equal(t, []string{"draft->review:submit"}, obs.transitions)
	assert.Equal(t, []string{"review"}, obs.enters)
}

func TestObserver_NotifiedOnRejectedTransition(t *testing.T) {
	sm := newDraftMachine(t)
	obs := &recordingObserver{}
	sm.AddObserver(obs)

	stray := NewTransition("stray", "review")
	_, err := sm.ExecuteTransition(stray)
	require.Error(t, err)

	assert.Equal(t, []string{"stray"}, obs.rejections)
	assert.Empty(t, obs.transitions)
}

func TestObserver_NotifiedOnStepFailure(t *testing.T) {
	boom := errors.New("boom")
	submit := NewTransition("submit", "review").WithAction(func() error { return boom })
	draft, err := NewState("draft", submit)
	require.NoError(t, err)
	review, err := NewState("review", NewTransition("reject", "draft"))
	require.NoError(t, err)
	sm, err := NewStateMachine("document", draft, review)
	require.NoError(t, err)

	obs := &recordingObserver{}
	sm.AddObserver(obs)

	_, err = sm.ExecuteTransition(submit)
	require.Error(t, err)

	require.Len(t, obs.errors, 1)
	assert.True(t, errors.Is(obs.errors[0], boom))
	assert.Empty(t, obs.transitions)
}

func TestObserver_NotifiedOnCurrentStateOverride(t *testing.T) {
	sm := newDraftMachine(t)
	obs := &recordingObserver{}
	sm.AddObserver(obs)

	require.NoError(t, sm.SetCurrentStateByKey("review"))
	assert.Equal(t, []string{"review"}, obs.overrides)
	// An override is not a transition.
	assert.Empty(t, obs.transitions)
}

func TestObserver_RemoveStopsNotifications(t *testing.T) {
	sm := newDraftMachine(t)
	obs := &recordingObserver{}
	sm.AddObserver(obs)
	sm.RemoveObserver(obs)

	_, err := sm.ExecuteTransitionByKey("submit")
	require.NoError(t, err)
	assert.Empty(t, obs.transitions)
}

type panickyObserver struct {
	BaseObserver
	errors []error
}

func (o *panickyObserver) OnTransition(from, to *State, transition *Transition) {
	panic("observer kaboom")
}

func (o *panickyObserver) OnError(err error) {
	o.errors = append(o.errors, err)
}

func TestObserver_PanicIsIsolated(t *testing.T) {
	sm := newDraftMachine(t)
	bad := &panickyObserver{}
	good := &recordingObserver{}
	sm.AddObserver(bad)
	sm.AddObserver(good)

	to, err := sm.ExecuteTransitionByKey("submit")
	require.NoError(t, err)
	assert.Equal(t, "review", to.Key())

	// The panicking observer hears about its own panic; the other observer
	// is unaffected.
	require.Len(t, bad.errors, 1)
	assert.Contains(t, bad.errors[0].Error(), "observer panic")
	assert.Equal(t, []string{"draft->review:submit"}, good.transitions)
}

func TestBaseObserver_IsFullExtendedObserver(t *testing.T) {
	var _ ExtendedObserver = (*BaseObserver)(nil)
}
