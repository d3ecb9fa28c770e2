package tunnel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTunnel struct{ name string }

func (n *nopTunnel) ApplyConfig(context.Context, Config) error { return nil }
func (n *nopTunnel) StartTrafficShaping() error                { return nil }
func (n *nopTunnel) InterfaceName() string                     { return n.name }
func (n *nopTunnel) Stop(context.Context) error                { return nil }

func TestSlotWithEmpty(t *testing.T) {
	slot := NewSlot(nil)

	called := false
	err := slot.With(func(tun Tunnel) error {
		called = true
		assert.Nil(t, tun)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSlotStoreAndClear(t *testing.T) {
	tun := &nopTunnel{name: "wg0"}
	slot := NewSlot(tun)

	err := slot.With(func(got Tunnel) error {
		assert.Same(t, tun, got)
		return nil
	})
	require.NoError(t, err)

	assert.Same(t, tun, slot.Clear())
	assert.Nil(t, slot.Clear())

	slot.Store(tun)
	assert.Same(t, tun, slot.Clear())
}
