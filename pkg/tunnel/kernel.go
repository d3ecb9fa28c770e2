package tunnel

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/vishvananda/netlink"
	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	errors "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/peer"
)

// KernelConfig describes the kernel WireGuard device a KernelTunnel drives.
type KernelConfig struct {
	Iface             string
	ListenPort        int
	KeepAliveInterval time.Duration
}

// KernelTunnel applies tunnel configuration to an existing kernel WireGuard
// device through wgctrl. It never creates or deletes the device itself.
type KernelTunnel struct {
	config *KernelConfig
	logger logr.Logger
}

func NewKernel(cfg *KernelConfig, logger logr.Logger) *KernelTunnel {
	return &KernelTunnel{
		config: cfg,
		logger: logger,
	}
}

func (kt *KernelTunnel) ApplyConfig(_ context.Context, cfg Config) error {
	client, err := wgctrl.New()
	if err != nil {
		return fmt.Errorf("failed to open wgctrl client: %w", err)
	}
	defer client.Close()

	peers := make([]wgtypes.PeerConfig, 0, 2)
	peers = append(peers, kt.peerConfig(&cfg.ExitPeer))
	if cfg.IsMultihop() {
		peers = append(peers, kt.peerConfig(cfg.EntryPeer))
	}

	privKey := cfg.PrivateKey
	wgConfig := wgtypes.Config{
		PrivateKey:   &privKey,
		ListenPort:   &kt.config.ListenPort,
		ReplacePeers: true,
		Peers:        peers,
	}

	if errDevice := client.ConfigureDevice(kt.config.Iface, wgConfig); errDevice != nil {
		return fmt.Errorf("failed to configure device %s: %w", kt.config.Iface, errDevice)
	}

	return nil
}

func (kt *KernelTunnel) peerConfig(p *peer.Config) wgtypes.PeerConfig {
	keepalive := kt.config.KeepAliveInterval
	return wgtypes.PeerConfig{
		PublicKey:                   p.PublicKey,
		Endpoint:                    p.Endpoint,
		AllowedIPs:                  p.AllowedIPs,
		PresharedKey:                p.PresharedKey,
		PersistentKeepaliveInterval: &keepalive,
	}
}

// StartTrafficShaping is not available on kernel WireGuard devices; DAITA
// requires a userspace implementation.
func (kt *KernelTunnel) StartTrafficShaping() error {
	return errors.Wrap(errors.ErrTunnelSetup, fmt.Errorf("traffic shaping is not supported on kernel device %s", kt.config.Iface))
}

func (kt *KernelTunnel) InterfaceName() string {
	return kt.config.Iface
}

// Stop clears all peers from the device, leaving the interface itself in place.
func (kt *KernelTunnel) Stop(_ context.Context) error {
	client, err := wgctrl.New()
	if err != nil {
		return fmt.Errorf("failed to open wgctrl client: %w", err)
	}
	defer client.Close()

	return client.ConfigureDevice(kt.config.Iface, wgtypes.Config{
		ReplacePeers: true,
	})
}

// SetMTU sets the interface MTU. Call it once when bringing the device up;
// ApplyConfig deliberately leaves the MTU alone so that a temporarily lowered
// value survives intermediate configuration passes.
func (kt *KernelTunnel) SetMTU(mtu int) error {
	link, err := netlink.LinkByName(kt.config.Iface)
	if err != nil {
		return fmt.Errorf("failed to get link %s: %w", kt.config.Iface, err)
	}

	if errMTU := netlink.LinkSetMTU(link, mtu); errMTU != nil {
		return fmt.Errorf("failed to set MTU on %s: %w", kt.config.Iface, errMTU)
	}

	kt.logger.V(1).Info("Set interface MTU", "iface", kt.config.Iface, "mtu", mtu)
	return nil
}
