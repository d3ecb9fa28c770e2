//go:build !linux

package rekey

import "github.com/go-logr/logr"

// NewPlatformTuner returns a no-op tuner on platforms whose negotiation
// transport does not need the MTU clamp.
func NewPlatformTuner(logr.Logger) InterfaceTuner {
	return noopTuner{}
}
