package errors

import (
	"errors"
	"fmt"
)

var (
	// Rotation cycle errors
	ErrNegotiationTimeout = errors.New("ephemeral peer negotiation timed out")
	ErrNegotiation        = errors.New("ephemeral peer negotiation failed")
	ErrObfuscatorSetup    = errors.New("failed to restart obfuscation transport")
	ErrTunnelSetup        = errors.New("failed to configure tunnel")
	ErrNoTunnel           = errors.New("no tunnel present")

	// Exchange transport errors
	ErrExchangeRequest  = errors.New("failed to send ephemeral peer request")
	ErrExchangeResponse = errors.New("gateway rejected ephemeral peer request")
	ErrExchangeDecode   = errors.New("failed to decode gateway response")
	ErrKEM              = errors.New("key encapsulation failed")
)

func Wrap(step error, err error) error {
	return fmt.Errorf("%w: %w", step, err)
}
