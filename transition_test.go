package fsmkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_DisplayNameFallsBackToKey(t *testing.T) {
	tr := NewTransition("submit", "review")
	assert.Equal(t, "submit", tr.DisplayName())

	tr.WithDisplayName("Submit for review")
	assert.Equal(t, "Submit for review", tr.DisplayName())
}

func TestTransition_ExecuteWithoutActionIsNoop(t *testing.T) {
	tr := NewTransition("submit", "review")
	require.NoError(t, tr.Execute())
}

func TestTransition_ExecuteRunsAction(t *testing.T) {
	ran := false
	tr := NewTransition("submit", "review").WithAction(func() error {
		ran = true
		return nil
	})

	require.NoError(t, tr.Execute())
	assert.True(t, ran)
}

func TestTransition_ExecutePropagatesActionError(t *testing.T) {
	boom := errors.New("boom")
	tr := NewTransition("submit", "review").WithAction(func() error {
		return boom
	})

	err := tr.Execute()
	assert.Equal(t, boom, err)
}

func TestTransition_ExecuteRecoversActionPanic(t *testing.T) {
	tr := NewTransition("submit", "review").WithAction(func() error {
		panic("kaboom")
	})

	err := tr.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestTransition_MutatorsChain(t *testing.T) {
	tr := NewTransition("submit", "")
	same := tr.SetTo("review").SetAction(func() error { return nil })

	assert.Same(t, tr, same)
	assert.Equal(t, "review", tr.To())
	assert.NotNil(t, tr.Action())
}

func TestTransition_EmptyKeyIsAllowed(t *testing.T) {
	// No key-format validation is performed at this level.
	tr := NewTransition("", "review")
	assert.Equal(t, "", tr.Key())
	assert.Equal(t, "", tr.DisplayName())
}
