package obfuscate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandle struct{ aborted bool }

func (h *stubHandle) Abort() { h.aborted = true }

func TestSlotUpdateStoresResult(t *testing.T) {
	old := &stubHandle{}
	slot := NewSlot(old)

	next := &stubHandle{}
	err := slot.Update(func(prev Handle) (Handle, error) {
		assert.Same(t, old, prev)
		return next, nil
	})
	require.NoError(t, err)
	assert.Same(t, next, slot.Clear())
}

func TestSlotUpdateFailureLeavesNil(t *testing.T) {
	slot := NewSlot(&stubHandle{})

	err := slot.Update(func(prev Handle) (Handle, error) {
		return nil, fmt.Errorf("construction failed")
	})
	require.Error(t, err)
	assert.Nil(t, slot.Clear())
}

func TestSlotEmptyUpdate(t *testing.T) {
	slot := NewSlot(nil)

	err := slot.Update(func(prev Handle) (Handle, error) {
		assert.Nil(t, prev)
		return prev, nil
	})
	require.NoError(t, err)
	assert.Nil(t, slot.Clear())
}
