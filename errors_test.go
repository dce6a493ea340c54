package fsmkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage_CoversAllCodes(t *testing.T) {
	codes := []ErrorCode{
		CodeNone,
		CodeDuplicateKey,
		CodeStateNotFound,
		CodeTransitionNotFound,
		CodeStateNil,
		CodeTransitionNil,
		CodeTransitionNotAllowed,
		CodeIndexOutOfRange,
		CodeArgumentMissing,
		CodeHookFailed,
		CodeValidationFailed,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		msg := ErrorMessage(code)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "message %q reused across codes", msg)
		seen[msg] = true
	}

	assert.Equal(t, "unknown error", ErrorMessage(ErrorCode(999)))
}

func TestDuplicateKeyError_Message(t *testing.T) {
	err := NewDuplicateKeyError("state 'draft'", "submit")
	assert.Contains(t, err.Error(), "submit")
	assert.Contains(t, err.Error(), "draft")
}

func TestChangeStateError_MessageVariants(t *testing.T) {
	submit := NewTransition("submit", "review")

	guard := NewTransitionNotAllowedError(submit)
	assert.Contains(t, guard.Error(), "submit")
	assert.Contains(t, guard.Error(), "<none>")
	assert.Nil(t, guard.Unwrap())

	draft, err := NewState("draft")
	require.NoError(t, err)
	review, err := NewState("review")
	require.NoError(t, err)

	cause := errors.New("boom")
	failed := NewTransitionFailedError(draft, review, submit, "action", cause)
	assert.Contains(t, failed.Error(), "draft")
	assert.Contains(t, failed.Error(), "review")
	assert.Contains(t, failed.Error(), "action failed")
	assert.True(t, errors.Is(failed, cause))
}

func TestNotFoundError_Message(t *testing.T) {
	err := NewStateNotFoundError("machine 'document'", "missing")
	assert.Contains(t, err.Error(), "state 'missing'")
	assert.Contains(t, err.Error(), "document")

	predicate := &NotFoundError{Container: "state 'draft'", Kind: "transition"}
	assert.Contains(t, predicate.Error(), "no matching transition")
}

func TestCodeOf(t *testing.T) {
	draft, err := NewState("draft")
	require.NoError(t, err)

	cases := []struct {
		err  error
		code ErrorCode
	}{
		{nil, CodeNone},
		{errors.New("foreign"), CodeNone},
		{NewDuplicateKeyError("scope", "k"), CodeDuplicateKey},
		{NewTransitionNotAllowedError(nil), CodeTransitionNotAllowed},
		{NewTransitionFailedError(draft, draft, nil, "action", errors.New("boom")), CodeHookFailed},
		{&ChangeStateError{Reason: "destination does not resolve", Err: NewStateNotFoundError("m", "x")}, CodeStateNotFound},
		{NewStateNotFoundError("m", "x"), CodeStateNotFound},
		{NewTransitionNotFoundError("s", "x"), CodeTransitionNotFound},
		{NewArgumentError("Op", "arg", "nil"), CodeArgumentMissing},
		{NewIndexError("Op", 4, 2), CodeIndexOutOfRange},
		{NewValidationError("rule", "detail"), CodeValidationFailed},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, CodeOf(tc.err), "for error %v", tc.err)
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(NewDuplicateKeyError("s", "k")))
	assert.True(t, IsChangeStateError(NewTransitionNotAllowedError(nil)))
	assert.True(t, IsNotFoundError(NewStateNotFoundError("m", "k")))
	assert.True(t, IsArgumentError(NewArgumentError("op", "a", "r")))
	assert.True(t, IsIndexError(NewIndexError("op", 1, 0)))

	foreign := errors.New("foreign")
	assert.False(t, IsDuplicateKeyError(foreign))
	assert.False(t, IsChangeStateError(foreign))
	assert.False(t, IsNotFoundError(foreign))
	assert.False(t, IsArgumentError(foreign))
	assert.False(t, IsIndexError(foreign))
}
