package rekey

import (
	"context"

	errors "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/obfuscate"
	"github.com/yago-123/wg-rekey/pkg/tunnel"
)

// reconfigureTunnel applies cfg to the live tunnel, restarting the obfuscation
// transport first when one is active. It returns the configuration actually in
// effect, which may differ from the input because the obfuscator rewrites the
// first-hop endpoint. An empty tunnel slot is not an error: the configuration
// is still computed and returned.
func (r *Rekeyer) reconfigureTunnel(
	ctx context.Context,
	tun *tunnel.Slot,
	cfg tunnel.Config,
	obfs *obfuscate.Slot,
	closed chan<- error,
) (tunnel.Config, error) {
	err := obfs.Update(func(prev obfuscate.Handle) (obfuscate.Handle, error) {
		if prev == nil {
			return nil, nil
		}

		// A stale transport must never coexist with the new configuration.
		prev.Abort()

		if r.obfuscator == nil {
			return nil, nil
		}
		next, errApply := r.obfuscator.Apply(ctx, &cfg, closed)
		if errApply != nil {
			return nil, errors.Wrap(errors.ErrObfuscatorSetup, errApply)
		}
		return next, nil
	})
	if err != nil {
		return tunnel.Config{}, err
	}

	err = tun.With(func(t tunnel.Tunnel) error {
		if t == nil {
			// Tunnel was torn down concurrently; nothing to reconfigure.
			return nil
		}
		if errApply := t.ApplyConfig(ctx, cfg); errApply != nil {
			return errors.Wrap(errors.ErrTunnelSetup, errApply)
		}
		return nil
	})
	if err != nil {
		return tunnel.Config{}, err
	}

	return cfg, nil
}
