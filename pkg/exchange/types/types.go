package types

import (
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// NegotiateRequest is the wire form of one ephemeral peer request. Keys are
// base64 encoded, WireGuard style.
type NegotiateRequest struct {
	WgPublicKey        string `json:"wg_public_key" example:"h2iGtZoTXBl7hOF6vCt5bKemrBAEsjmqLHZuAUJi6is="`
	EphemeralPublicKey string `json:"ephemeral_public_key" example:"HhvuS5kX7kuqhlwnvbX7UjdFrjABQFShZ1q9qRSX9xI="`
	KemPublicKey       string `json:"kem_public_key,omitempty"`
	DAITA              bool   `json:"daita"`
}

// NegotiateResponse carries the gateway's answer. KemCiphertext is only set
// for quantum-resistant negotiations; without it the exchange yields no PSK.
type NegotiateResponse struct {
	KemCiphertext string `json:"kem_ciphertext,omitempty"`
}

// Negotiation is the gateway-side record of one completed exchange, keyed by
// the session's WireGuard public key.
type Negotiation struct {
	EphemeralPublicKey wgtypes.Key
	PresharedKey       *wgtypes.Key
	DAITA              bool
	CreatedAt          time.Time
}
