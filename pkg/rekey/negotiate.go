package rekey

import (
	"context"
	stderrors "errors"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/yago-123/wg-rekey/pkg/backoff"
	errors "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/exchange/client"
	"github.com/yago-123/wg-rekey/pkg/tunnel"
)

// requestEphemeralPeer performs one bounded negotiation attempt against the
// gateway of the given configuration. The attempt is abandoned outright when
// the deadline fires; no compensating action is taken on the peer side.
func (r *Rekeyer) requestEphemeralPeer(
	ctx context.Context,
	cfg *tunnel.Config,
	ephemeralPublicKey wgtypes.Key,
	enablePQ bool,
	enableDAITA bool,
	retryAttempt uint32,
) (*wgtypes.Key, error) {
	r.logger.V(1).Info("Requesting ephemeral peer", "attempt", retryAttempt, "pq", enablePQ, "daita", enableDAITA)

	reqCtx, cancel := context.WithTimeout(ctx, backoff.ExchangeTimeout(retryAttempt))
	defer cancel()

	psk, err := r.exchanger.RequestEphemeralPeer(reqCtx, client.Request{
		Gateway:            cfg.IPv4Gateway,
		WgPublicKey:        cfg.PrivateKey.PublicKey(),
		EphemeralPublicKey: ephemeralPublicKey,
		QuantumResistant:   enablePQ,
		DAITA:              enableDAITA,
	})
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			r.logger.Info("Timeout while negotiating ephemeral peer")
			return nil, errors.Wrap(errors.ErrNegotiationTimeout, err)
		}
		return nil, errors.Wrap(errors.ErrNegotiation, err)
	}

	return psk, nil
}
