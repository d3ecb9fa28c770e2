//go:build linux

package rekey

import (
	"github.com/go-logr/logr"
	"github.com/vishvananda/netlink"
)

// NewPlatformTuner returns the netlink-backed tuner. Negotiation traffic has
// to fit under the low MTU ceiling the exchange assumes, so the interface is
// clamped before negotiating and restored afterwards.
func NewPlatformTuner(logger logr.Logger) InterfaceTuner {
	return &netlinkTuner{logger: logger}
}

type netlinkTuner struct {
	logger logr.Logger
}

func (t *netlinkTuner) ClampMTU(iface string) {
	t.setMTU(iface, MinIPv4MTU)
}

func (t *netlinkTuner) RestoreMTU(iface string, mtu int) {
	if mtu <= 0 {
		return
	}
	t.setMTU(iface, mtu)
}

func (t *netlinkTuner) setMTU(iface string, mtu int) {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		t.logger.Error(err, "Failed to look up tunnel interface", "iface", iface)
		return
	}

	if err := netlink.LinkSetMTU(link, mtu); err != nil {
		t.logger.Error(err, "Failed to set tunnel interface MTU", "iface", iface, "mtu", mtu)
	}
}
