package acceptor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	base := errors.New("registry unwritable")
	err := NewRuntimeError(base)

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "runtime error")

	wrapped := fmt.Errorf("during save: %w", err)
	assert.True(t, IsRuntimeError(wrapped))
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("2 scenarios failed")

	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "2 scenarios failed")

	wrapped := fmt.Errorf("run finished: %w", err)
	assert.True(t, IsTestFailureError(wrapped))
}

func TestErrorClassifiersNil(t *testing.T) {
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(nil))
	assert.False(t, IsRuntimeError(errors.New("plain")))
	assert.False(t, IsTestFailureError(errors.New("plain")))
}
