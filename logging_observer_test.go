package fsmkit

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingObserver_LogsTransitions(t *testing.T) {
	sm := newDraftMachine(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	sm.AddObserver(NewLoggingObserver(logger, sm))

	_, err := sm.ExecuteTransitionByKey("submit")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"machine":"document"`)
	assert.Contains(t, out, `"machine_id":"`+sm.ID()+`"`)
	assert.Contains(t, out, `"from":"draft"`)
	assert.Contains(t, out, `"to":"review"`)
	assert.Contains(t, out, `"transition":"submit"`)
	assert.Contains(t, out, "state changed")
}

func TestLoggingObserver_LogsRejections(t *testing.T) {
	sm := newDraftMachine(t)

	var buf bytes.Buffer
	sm.AddObserver(NewLoggingObserver(zerolog.New(&buf), sm))

	foreign := NewTransition("escape", "draft")
	_, err := sm.ExecuteTransition(foreign)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "transition rejected")
	assert.Contains(t, out, `"transition":"escape"`)
}

func TestLoggingObserver_LogsStepFailures(t *testing.T) {
	sm := newDraftMachine(t)
	draft, err := sm.StateOf("draft")
	require.NoError(t, err)
	draft.WithOnExit(func(other *State) error { return assert.AnError })

	var buf bytes.Buffer
	sm.AddObserver(NewLoggingObserver(zerolog.New(&buf), sm))

	_, err = sm.ExecuteTransitionByKey("submit")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "transition step failed")
}
