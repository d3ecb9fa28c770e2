package peer

import (
	"net"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// Config describes a single WireGuard peer of the tunnel: the exit peer, or the
// entry peer when multihop is active.
type Config struct {
	PublicKey  wgtypes.Key
	Endpoint   *net.UDPAddr
	AllowedIPs []net.IPNet

	// PresharedKey is nil until an ephemeral peer negotiation has produced one.
	PresharedKey *wgtypes.Key

	// ConstantPacketSize pads outgoing packets to a constant size. Only set on
	// the first hop when traffic shaping (DAITA) is enabled.
	ConstantPacketSize bool
}

// Clone returns a deep copy so that mutating allowed IPs or the PSK of the copy
// never leaks into the original.
func (c Config) Clone() Config {
	out := c
	out.AllowedIPs = make([]net.IPNet, len(c.AllowedIPs))
	for i, ipnet := range c.AllowedIPs {
		out.AllowedIPs[i] = net.IPNet{
			IP:   append(net.IP(nil), ipnet.IP...),
			Mask: append(net.IPMask(nil), ipnet.Mask...),
		}
	}
	if c.PresharedKey != nil {
		psk := *c.PresharedKey
		out.PresharedKey = &psk
	}
	if c.Endpoint != nil {
		ep := *c.Endpoint
		ep.IP = append(net.IP(nil), c.Endpoint.IP...)
		out.Endpoint = &ep
	}
	return out
}
