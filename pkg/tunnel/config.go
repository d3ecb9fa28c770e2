package tunnel

import (
	"net"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/yago-123/wg-rekey/pkg/peer"
)

// Config is the full configuration of a WireGuard tunnel as this module sees
// it: the tunnel's own private key, the in-tunnel IPv4 gateway used for peer
// negotiation, and one or two peers.
type Config struct {
	PrivateKey  wgtypes.Key
	IPv4Gateway net.IP
	MTU         int

	// QuantumResistant requests a post-quantum secured PSK exchange.
	QuantumResistant bool

	// DAITA enables traffic shaping on the first hop.
	DAITA bool

	ExitPeer peer.Config

	// EntryPeer is only set when multihop is active.
	EntryPeer *peer.Config
}

// IsMultihop reports whether traffic is routed through an entry peer before
// reaching the exit peer. This is the sole multihop predicate; no other field
// combination may be used to infer it.
func (c *Config) IsMultihop() bool {
	return c.EntryPeer != nil
}

// FirstHop returns the peer the host actually sends packets to: the entry peer
// when multihop is active, the exit peer otherwise.
func (c *Config) FirstHop() *peer.Config {
	if c.EntryPeer != nil {
		return c.EntryPeer
	}
	return &c.ExitPeer
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := c
	if c.IPv4Gateway != nil {
		out.IPv4Gateway = append(net.IP(nil), c.IPv4Gateway...)
	}
	out.ExitPeer = c.ExitPeer.Clone()
	if c.EntryPeer != nil {
		entry := c.EntryPeer.Clone()
		out.EntryPeer = &entry
	}
	return out
}
