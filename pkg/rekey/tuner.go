package rekey

// MinIPv4MTU is the smallest MTU the negotiation transport is guaranteed to
// work under; the tuner clamps the interface to it for the duration of a
// rotation cycle.
const MinIPv4MTU = 576

// InterfaceTuner transiently adjusts tunnel interface parameters around a
// negotiation. Implementations are best-effort: failures are logged and never
// abort the rotation cycle.
type InterfaceTuner interface {
	ClampMTU(iface string)
	RestoreMTU(iface string, mtu int)
}

type noopTuner struct{}

func (noopTuner) ClampMTU(string)        {}
func (noopTuner) RestoreMTU(string, int) {}
