package tunnel

import (
	"context"
)

// Tunnel is the capability this module uses to mutate a live WireGuard tunnel.
// The tunnel itself is created and destroyed elsewhere; this interface only
// allows pushing new configuration into it.
type Tunnel interface {
	// ApplyConfig installs the given configuration on the running tunnel.
	ApplyConfig(ctx context.Context, cfg Config) error

	// StartTrafficShaping starts the tunnel's DAITA machines. Only called after
	// a configuration with DAITA enabled has been applied.
	StartTrafficShaping() error

	// InterfaceName returns the name of the tunnel's network interface.
	InterfaceName() string

	Stop(ctx context.Context) error
}
