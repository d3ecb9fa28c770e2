// Package rekey obtains ephemeral peers for a live WireGuard tunnel, updating
// its configuration and restarting the obfuscation transport when necessary.
package rekey

import (
	"context"
	"net"

	"github.com/go-logr/logr"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	errors "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/exchange/client"
	"github.com/yago-123/wg-rekey/pkg/obfuscate"
	"github.com/yago-123/wg-rekey/pkg/tunnel"
)

// Rekeyer drives rotation cycles. It holds only collaborators; all per-cycle
// state travels through the arguments of ConfigEphemeralPeers, so a Rekeyer is
// safe to reuse. The caller must not run two cycles concurrently for the same
// tunnel.
type Rekeyer struct {
	exchanger  client.PeerExchanger
	obfuscator obfuscate.Applier
	tuner      InterfaceTuner
	logger     logr.Logger
}

func New(exchanger client.PeerExchanger, opts ...Option) *Rekeyer {
	cfg := newDefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	tuner := cfg.tuner
	if tuner == nil {
		tuner = NewPlatformTuner(cfg.logger)
	}

	return &Rekeyer{
		exchanger:  exchanger,
		obfuscator: cfg.obfuscator,
		tuner:      tuner,
		logger:     cfg.logger,
	}
}

// ConfigEphemeralPeers runs one rotation cycle: it derives a fresh ephemeral
// identity, negotiates a PSK with the exit peer (and the entry peer when
// multihop is active) and reconfigures the tunnel accordingly, updating cfg in
// place on success. On failure the tunnel is left on whatever configuration
// was last applied; callers must treat its state as indeterminate and tear the
// session down rather than retry on the same state.
func (r *Rekeyer) ConfigEphemeralPeers(
	ctx context.Context,
	tun *tunnel.Slot,
	obfs *obfuscate.Slot,
	cfg *tunnel.Config,
	retryAttempt uint32,
	closed chan<- error,
) error {
	if iface := tunnelInterfaceName(tun); iface != "" {
		r.logger.V(2).Info("Temporarily lowering tunnel MTU before ephemeral peer config")
		r.tuner.ClampMTU(iface)
		defer func() {
			r.logger.V(2).Info("Resetting tunnel MTU")
			r.tuner.RestoreMTU(iface, cfg.MTU)
		}()
	}

	return r.configEphemeralPeers(ctx, tun, obfs, cfg, retryAttempt, closed)
}

func (r *Rekeyer) configEphemeralPeers(
	ctx context.Context,
	tun *tunnel.Slot,
	obfs *obfuscate.Slot,
	cfg *tunnel.Config,
	retryAttempt uint32,
	closed chan<- error,
) error {
	ephemeralKey, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return errors.Wrap(errors.ErrNegotiation, err)
	}

	installed := false
	defer func() {
		// The identity is single-use: discard it unless it made it into the
		// tunnel configuration.
		if !installed {
			zeroKey(&ephemeralKey)
		}
	}()

	exitShouldHaveDAITA := cfg.DAITA && !cfg.IsMultihop()
	exitPSK, err := r.requestEphemeralPeer(ctx, cfg, ephemeralKey.PublicKey(), cfg.QuantumResistant, exitShouldHaveDAITA, retryAttempt)
	if err != nil {
		return err
	}

	r.logger.V(1).Info("Retrieved ephemeral peer")

	if cfg.IsMultihop() {
		// Reconfigure so the gateway stays reachable for the entry exchange.
		entryCfg := cfg.Clone()
		entryCfg.EntryPeer.AllowedIPs = append(entryCfg.EntryPeer.AllowedIPs, net.IPNet{
			IP:   cfg.IPv4Gateway.To4(),
			Mask: net.CIDRMask(32, 32),
		})

		appliedCfg, errReconf := r.reconfigureTunnel(ctx, tun, entryCfg, obfs, closed)
		if errReconf != nil {
			return errReconf
		}

		entryPSK, errEntry := r.requestEphemeralPeer(ctx, &appliedCfg, ephemeralKey.PublicKey(), cfg.QuantumResistant, cfg.DAITA, retryAttempt)
		if errEntry != nil {
			return errEntry
		}
		r.logger.V(1).Info("Successfully exchanged PSK with entry peer")

		cfg.EntryPeer.PresharedKey = entryPSK
	}

	cfg.ExitPeer.PresharedKey = exitPSK
	if cfg.DAITA {
		r.logger.V(2).Info("Enabling constant packet size for first hop")
		cfg.FirstHop().ConstantPacketSize = true
	}

	// Private key and PSKs from the same round go live together.
	cfg.PrivateKey = ephemeralKey

	appliedCfg, err := r.reconfigureTunnel(ctx, tun, cfg.Clone(), obfs, closed)
	if err != nil {
		return err
	}
	*cfg = appliedCfg
	installed = true

	if cfg.DAITA {
		err := tun.With(func(t tunnel.Tunnel) error {
			if t == nil {
				return errors.Wrap(errors.ErrTunnelSetup, errors.ErrNoTunnel)
			}
			if errShaping := t.StartTrafficShaping(); errShaping != nil {
				return errors.Wrap(errors.ErrTunnelSetup, errShaping)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func tunnelInterfaceName(tun *tunnel.Slot) string {
	var name string
	_ = tun.With(func(t tunnel.Tunnel) error {
		if t != nil {
			name = t.InterfaceName()
		}
		return nil
	})
	return name
}

func zeroKey(k *wgtypes.Key) {
	for i := range k {
		k[i] = 0
	}
}
