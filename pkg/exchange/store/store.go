package store

import "github.com/yago-123/wg-rekey/pkg/exchange/types"

// Store records negotiated ephemeral peers on the gateway side, keyed by the
// session's WireGuard public key.
type Store interface {
	Register(wgPublicKey string, n types.Negotiation) error
	Lookup(wgPublicKey string) (types.Negotiation, bool)
}
