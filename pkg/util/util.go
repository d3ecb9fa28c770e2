package util

import (
	"context"
	"fmt"
	"net"

	"github.com/pion/stun"
)

const (
	UDPProtocol = "udp"
	TCPProtocol = "tcp"
)

// GetPublicEndpoint tries the provided STUN servers to discover the host's
// public-facing address. Returns the first answer, or an error if all servers
// fail. Used for diagnostics around rotation cycles; never on the hot path.
func GetPublicEndpoint(ctx context.Context, servers []string) (*net.UDPAddr, error) {
	var lastErr error

	for _, server := range servers {
		endpoint, err := trySTUNServer(ctx, server)
		if err == nil {
			return endpoint, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("all STUN servers failed: %w", lastErr)
}

func trySTUNServer(ctx context.Context, server string) (*net.UDPAddr, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, UDPProtocol, server)
	if err != nil {
		return nil, fmt.Errorf("error dialing STUN server %s: %w", server, err)
	}
	defer conn.Close()

	client, err := stun.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("error creating STUN client: %w", err)
	}
	defer client.Close()

	// Send a binding request to the STUN server for determining the public IP
	var xorAddr stun.XORMappedAddress
	if err := client.Do(stun.MustBuild(stun.TransactionID, stun.BindingRequest), func(res stun.Event) {
		if res.Error != nil {
			err = res.Error
			return
		}
		if getErr := xorAddr.GetFrom(res.Message); getErr != nil {
			err = fmt.Errorf("failed to get XOR-MAPPED-ADDRESS: %w", getErr)
		}
	}); err != nil {
		return nil, fmt.Errorf("STUN request to %s failed: %w", server, err)
	}

	return &net.UDPAddr{IP: xorAddr.IP, Port: xorAddr.Port}, nil
}
